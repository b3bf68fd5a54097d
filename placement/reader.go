package placement

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/RustamC/MacroPlacement/model"
)

// RestoreOptions mirrors restore_placement's boolean flags.
type RestoreOptions struct {
	// Validate requires the file's index set to equal the netlist's
	// ports ∪ hard_macros ∪ soft_macros; a mismatch returns
	// ErrCountMismatch or ErrIndexSetMismatch.
	Validate bool
	// ReadComment applies recognized "# Key : value" metadata lines to the
	// returned Metadata; ignored (zero Metadata) when false.
	ReadComment bool
}

// record is one parsed data line: "<index> <x> <y> <orientation|-> <fixed>".
type record struct {
	line        int
	index       int
	x, y        float64
	orientation string
	fixed       bool
}

// Restore reads the placement file at path into g: for every record, sets
// the module's position, orientation (if not "-"), and fixed flag, then
// marks every metric dirty. It returns the comment-derived Metadata (zero
// value if opts.ReadComment is false).
func Restore(path string, g *model.Graph, opts RestoreOptions) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	var meta Metadata
	var records []record

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := token.FindAllString(line, -1)
		if len(fields) == 0 {
			continue
		}
		if isCommentLine(line) {
			if opts.ReadComment {
				meta.applyCommentLine(fields)
			}
			continue
		}
		rec, err := parseRecord(fields)
		if err != nil {
			return Metadata{}, &LineError{Line: lineNo, Err: err}
		}
		rec.line = lineNo
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, err
	}

	if opts.Validate {
		if err := validateIndices(g, records); err != nil {
			return Metadata{}, err
		}
	}

	for _, rec := range records {
		if err := g.Restore(rec.index, rec.x, rec.y, rec.fixed); err != nil {
			return Metadata{}, &LineError{Line: rec.line, Err: err}
		}
		if rec.orientation != "-" {
			if err := g.SetOrientation(rec.index, model.Orientation(rec.orientation)); err != nil {
				return Metadata{}, &LineError{Line: rec.line, Err: err}
			}
		}
	}
	g.MarkDirty(model.All)

	return meta, nil
}

func isCommentLine(line string) bool {
	for _, c := range line {
		switch c {
		case ' ', '\t':
			continue
		case '#':
			return true
		default:
			return false
		}
	}
	return false
}

func parseRecord(fields []string) (record, error) {
	if len(fields) != 5 {
		return record{}, ErrMalformedLine
	}
	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return record{}, fmt.Errorf("%w: index %q", ErrMalformedLine, fields[0])
	}
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return record{}, fmt.Errorf("%w: x %q", ErrMalformedLine, fields[1])
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return record{}, fmt.Errorf("%w: y %q", ErrMalformedLine, fields[2])
	}
	fixedFlag, err := strconv.Atoi(fields[4])
	if err != nil || (fixedFlag != 0 && fixedFlag != 1) {
		return record{}, fmt.Errorf("%w: fixed %q", ErrMalformedLine, fields[4])
	}
	return record{
		index:       idx,
		x:           x,
		y:           y,
		orientation: fields[3],
		fixed:       fixedFlag == 1,
	}, nil
}

func validateIndices(g *model.Graph, records []record) error {
	want := g.PlaceableIndices()
	if len(want) != len(records) {
		return ErrCountMismatch
	}
	have := make(map[int]bool, len(records))
	for _, r := range records {
		have[r.index] = true
	}
	wantSorted := append([]int(nil), want...)
	sort.Ints(wantSorted)
	for _, idx := range wantSorted {
		if !have[idx] {
			return ErrIndexSetMismatch
		}
	}
	return nil
}
