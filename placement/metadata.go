package placement

import (
	"regexp"
	"strconv"
)

// token matches a single alphanumeric/dot/dash run, the same tokenization
// the original placement-file reader uses to pull fields out of a loosely
// formatted comment line without caring about exact spacing or punctuation.
var token = regexp.MustCompile(`[0-9A-Za-z.\-]+`)

// Metadata holds the recognized "# Key : value" comment lines a placement
// file may carry: canvas/grid sizing, routing allocations, smoothing and
// overlap parameters, and per-Kind module counts used to cross-check a
// validated restore against the netlist.
type Metadata struct {
	Columns, Rows int
	Width, Height float64
	Area          float64
	Block         string

	RoutesPerMicronHor, RoutesPerMicronVer     float64
	RoutesUsedByMacrosHor, RoutesUsedByMacrosVer float64
	SmoothingFactor                              int
	OverlapThreshold                             float64

	HardMacros, HardMacroPins int
	Macros                    int
	Ports                     int
	SoftMacros, SoftMacroPins int
	StdCells                  int
}

// applyCommentLine inspects one comment line's tokens and, if they match a
// recognized metadata key, updates meta in place and reports true.
// Unrecognized comment lines (plain info text passed to Save) are left
// alone and reported false.
func (meta *Metadata) applyCommentLine(fields []string) bool {
	has := func(keys ...string) bool {
		for _, k := range keys {
			if !containsField(fields, k) {
				return false
			}
		}
		return true
	}

	switch {
	case has("Columns", "Rows"):
		meta.Columns = atoi(fields[1])
		meta.Rows = atoi(fields[3])
	case has("Width", "Height"):
		meta.Width = atof(fields[1])
		meta.Height = atof(fields[3])
	case has("Area", "stdcell", "macros"):
		meta.Area = atof(fields[3])
	case has("Area"):
		meta.Area = atof(fields[1])
	case has("Block"):
		meta.Block = fields[1]
	case has("Routes", "per", "micron", "hor", "ver"):
		meta.RoutesPerMicronHor = atof(fields[4])
		meta.RoutesPerMicronVer = atof(fields[6])
	case has("Routes", "used", "by", "macros", "hor", "ver"):
		meta.RoutesUsedByMacrosHor = atof(fields[5])
		meta.RoutesUsedByMacrosVer = atof(fields[7])
	case has("Smoothing", "factor"):
		meta.SmoothingFactor = atoi(fields[2])
	case has("Overlap", "threshold"):
		meta.OverlapThreshold = atof(fields[2])
	case has("HARD", "MACROs") && len(fields) == 3:
		meta.HardMacros = atoi(fields[2])
	case has("HARD", "MACRO", "PINs") && len(fields) == 4:
		meta.HardMacroPins = atoi(fields[3])
	case has("PORTs") && len(fields) == 2:
		meta.Ports = atoi(fields[1])
	case has("SOFT", "MACROs") && len(fields) == 3:
		meta.SoftMacros = atoi(fields[2])
	case has("SOFT", "MACRO", "PINs") && len(fields) == 4:
		meta.SoftMacroPins = atoi(fields[3])
	case has("STDCELLs") && len(fields) == 2:
		meta.StdCells = atoi(fields[1])
	case has("MACROs") && len(fields) == 2:
		meta.Macros = atoi(fields[1])
	default:
		return false
	}
	return true
}

func containsField(fields []string, key string) bool {
	for _, f := range fields {
		if f == key {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
