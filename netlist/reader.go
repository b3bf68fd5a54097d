package netlist

import (
	"fmt"
	"os"

	"github.com/RustamC/MacroPlacement/model"
)

const metadataNodeName = "__metadata__"

// nodeRecord is the raw, untyped form of one `node { ... }` block, before
// dispatch on its "type" attribute builds the corresponding model.Module.
type nodeRecord struct {
	line   int
	name   string
	inputs []string
	attrs  map[string]string
}

// Read parses the netlist file at path into a new model.Graph.
func Read(path string) (*model.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("netlist: reading %s: %w", path, err)
	}
	return ReadString(string(data))
}

// ReadString parses netlist text already in memory into a new model.Graph.
func ReadString(data string) (*model.Graph, error) {
	records, err := parseRecords(lex(data))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &ParseError{Line: 1, Err: ErrEmptyNetlist}
	}
	return buildGraph(records)
}

func parseRecords(toks []token) ([]nodeRecord, error) {
	var records []nodeRecord
	p := &parser{toks: toks}
	for !p.atEOF() {
		rec, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) atEOF() bool { return p.toks[p.pos].kind == tokEOF }
func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, text string) (token, error) {
	t := p.next()
	if t.kind != kind || (text != "" && t.text != text) {
		return t, &ParseError{Line: t.line, Err: fmt.Errorf("%w: expected %q, got %q", ErrSyntax, text, t.text)}
	}
	return t, nil
}

// parseNode parses one `node { name: "..." input: "..." attr {...} ... }`
// block into a nodeRecord.
func (p *parser) parseNode() (nodeRecord, error) {
	if _, err := p.expect(tokIdent, "node"); err != nil {
		return nodeRecord{}, err
	}
	startLine := p.toks[p.pos-1].line
	if _, err := p.expect(tokBrace, "{"); err != nil {
		return nodeRecord{}, err
	}
	rec := nodeRecord{line: startLine, attrs: make(map[string]string)}
	for {
		t := p.peek()
		if t.kind == tokBrace && t.text == "}" {
			p.next()
			return rec, nil
		}
		if t.kind == tokEOF {
			return nodeRecord{}, &ParseError{Line: t.line, Err: fmt.Errorf("%w: unterminated node block", ErrSyntax)}
		}
		field := p.next()
		switch field.text {
		case "name":
			if _, err := p.expect(tokBrace, ":"); err != nil {
				return nodeRecord{}, err
			}
			rec.name = p.next().text
		case "input":
			if _, err := p.expect(tokBrace, ":"); err != nil {
				return nodeRecord{}, err
			}
			rec.inputs = append(rec.inputs, p.next().text)
		case "attr":
			if err := p.parseAttr(&rec); err != nil {
				return nodeRecord{}, err
			}
		default:
			return nodeRecord{}, &ParseError{Line: field.line, Node: rec.name, Err: fmt.Errorf("%w: unrecognized field %q", ErrSyntax, field.text)}
		}
	}
}

// parseAttr parses `attr { key: "k" value { <kind>: <v> } }` and stores the
// value's textual form under rec.attrs[k], regardless of whether the value
// sub-field was "f" (float), "placeholder" (enum string) or "s" (string):
// callers that need a float parse the stored text themselves, keeping this
// parser agnostic to which scalar kind a given key uses.
func (p *parser) parseAttr(rec *nodeRecord) error {
	if _, err := p.expect(tokBrace, "{"); err != nil {
		return err
	}
	if _, err := p.expect(tokIdent, "key"); err != nil {
		return err
	}
	if _, err := p.expect(tokBrace, ":"); err != nil {
		return err
	}
	key := p.next().text

	if _, err := p.expect(tokIdent, "value"); err != nil {
		return err
	}
	if _, err := p.expect(tokBrace, "{"); err != nil {
		return err
	}
	// value sub-field, e.g. "f" / "placeholder" / "s" / "b" / "i"
	sub := p.peek()
	if sub.kind != tokBrace || sub.text != "}" {
		p.next() // consume sub-field name (f/placeholder/s/b/i)
		if _, err := p.expect(tokBrace, ":"); err != nil {
			return err
		}
		val := p.next()
		rec.attrs[key] = val.text
	}
	if _, err := p.expect(tokBrace, "}"); err != nil {
		return err
	}
	if _, err := p.expect(tokBrace, "}"); err != nil {
		return err
	}
	return nil
}
