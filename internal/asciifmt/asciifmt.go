// Package asciifmt tokenizes and recursive-descent parses the legacy
// FBX ASCII grammar into the same internal/ast.Node tree internal/
// binaryfmt produces, sharing internal/classify's array-classification
// table for the array-vs-scalar decision the two syntaxes make
// differently (explicit "*N { a: ... }" blocks for >=7000, bare
// comma-separated runs inferred purely from context for <7000).
package asciifmt

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/classify"
	"github.com/ufbxgo/ufbx/internal/strpool"
	"github.com/ufbxgo/ufbx/internal/strtod"
)

var (
	ErrUnexpectedToken = errors.New("asciifmt: unexpected token")
	ErrMaxDepth        = errors.New("asciifmt: max node depth exceeded")
)

// Limits bounds parsing.
type Limits struct {
	MaxNodeDepth    int
	MaxNodeChildren int
	MaxTokenLength  int
}

// Parser holds parse state for one ASCII document.
type Parser struct {
	lex     *lexer
	tok     token
	pool    *strpool.Pool
	limits  Limits
	version int32
}

// DetectVersion scans the leading "; FBX 7.4.0 project file" style
// comment for a version fallback; if absent, 7400 is assumed per the
// documented default.
func DetectVersion(src string) int32 {
	firstLine := src
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		firstLine = src[:i]
	}
	firstLine = strings.TrimSpace(firstLine)
	if !strings.HasPrefix(firstLine, ";") {
		return 7400
	}
	firstLine = strings.TrimPrefix(firstLine, ";")
	firstLine = strings.TrimSpace(firstLine)
	if !strings.HasPrefix(firstLine, "FBX ") {
		return 7400
	}
	rest := strings.TrimPrefix(firstLine, "FBX ")
	var a, b, c int
	n, _ := fmtSscanf(rest, &a, &b, &c)
	if n != 3 {
		return 7400
	}
	return int32(a*1000 + b*100 + c)
}

// fmtSscanf is a tiny "a.b.c" parser avoiding a fmt.Sscanf import for
// such a narrow use (three dot-separated integers).
func fmtSscanf(s string, a, b, c *int) (int, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 3 {
		return 0, errors.New("asciifmt: bad version comment")
	}
	var err error
	*a, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, err
	}
	*b, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 1, err
	}
	*c, err = strconv.Atoi(strings.TrimSpace(strings.SplitN(parts[2], " ", 2)[0]))
	if err != nil {
		return 2, err
	}
	return 3, nil
}

// New constructs a parser over src.
func New(src string, pool *strpool.Pool, limits Limits) *Parser {
	version := DetectVersion(src)
	p := &Parser{lex: newLexer(src), pool: pool, limits: limits, version: version}
	return p
}

func (p *Parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// ParseDocument parses the whole file into a synthetic root node whose
// children are the toplevel sections.
func (p *Parser) ParseDocument() (*ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	root := &ast.Node{Name: ""}
	for p.tok.kind != tokEOF {
		n, err := p.parseNode(classify.StateRoot, 0)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, n)
	}
	return root, nil
}

func (p *Parser) parseNode(state classify.State, depth int) (*ast.Node, error) {
	if p.limits.MaxNodeDepth > 0 && depth > p.limits.MaxNodeDepth {
		return nil, ErrMaxDepth
	}
	if p.tok.kind != tokName {
		return nil, ErrUnexpectedToken
	}
	rawName := p.tok.text
	name, err := p.pool.Intern(rawName)
	if err != nil {
		return nil, err
	}
	n := &ast.Node{Name: name}
	if err := p.advance(); err != nil {
		return nil, err
	}

	childState := classify.ChildState(state, name)
	desc, hasDesc := classify.Classify(state, name)

	// Explicit array form: NAME: *N { a: v1, v2, ... }
	if p.tok.kind == tokStar {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokInt {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.kind == tokLBrace {
			if err := p.advance(); err != nil {
				return nil, err
			}
			values, err := p.parseArrayValuesNode()
			if err != nil {
				return nil, err
			}
			if !hasDesc {
				desc = classify.Descriptor{Type: inferArrayType(values)}
			}
			n.IsArray = true
			n.Array = buildArray(values, desc)
			if p.tok.kind != tokRBrace {
				return nil, ErrUnexpectedToken
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			return n, nil
		}
	}

	// Scalar/implicit-array value list.
	var values []ast.Value
	for isValueStart(p.tok.kind) {
		v, err := p.parseScalarValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if hasDesc && len(values) > 0 {
		n.IsArray = true
		n.Array = buildArray(values, desc)
	} else {
		for i, v := range values {
			if i >= 7 {
				break
			}
			n.Values[i] = v
			n.NumValues++
		}
	}

	if p.tok.kind == tokLBrace {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.tok.kind == tokName {
			child, err := p.parseNode(childState, depth+1)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			if p.limits.MaxNodeChildren > 0 && len(n.Children) > p.limits.MaxNodeChildren {
				return nil, errors.New("asciifmt: too many children")
			}
		}
		if p.tok.kind != tokRBrace {
			return nil, ErrUnexpectedToken
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// parseArrayValuesNode parses the single "a: v1, v2, ..." pseudo-child
// that carries an explicit array block's payload.
func (p *Parser) parseArrayValuesNode() ([]ast.Value, error) {
	if p.tok.kind != tokName || p.tok.text != "a" {
		// Some writers omit the "a:" label in degenerate single-element
		// arrays; fall back to reading values directly.
		return p.parseValueList()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseValueList()
}

func (p *Parser) parseValueList() ([]ast.Value, error) {
	var values []ast.Value
	for isValueStart(p.tok.kind) {
		v, err := p.parseScalarValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return values, nil
}

func isValueStart(k tokenKind) bool {
	switch k {
	case tokInt, tokFloat, tokString, tokBareWord:
		return true
	}
	return false
}

func (p *Parser) parseScalarValue() (ast.Value, error) {
	t := p.tok
	var v ast.Value
	switch t.kind {
	case tokInt:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return ast.Value{}, err
		}
		v = ast.Value{Kind: ast.ValueInt, I: i}
	case tokFloat:
		f, err := strtod.ParseF64(t.text)
		if err != nil {
			return ast.Value{}, err
		}
		v = ast.Value{Kind: ast.ValueFloat, F: f, RawText: t.text}
	case tokString:
		v = ast.Value{Kind: ast.ValueString, S: t.text}
	case tokBareWord:
		switch t.text {
		case "T", "Y", "true", "True":
			v = ast.Value{Kind: ast.ValueBool, B: true}
		case "F", "N", "false", "False":
			v = ast.Value{Kind: ast.ValueBool, B: false}
		default:
			v = ast.Value{Kind: ast.ValueString, S: t.text}
		}
	default:
		return ast.Value{}, ErrUnexpectedToken
	}
	if err := p.advance(); err != nil {
		return ast.Value{}, err
	}
	return v, nil
}

func inferArrayType(values []ast.Value) ast.ArrayType {
	for _, v := range values {
		if v.Kind == ast.ValueFloat {
			return ast.ArrayFloat64
		}
	}
	return ast.ArrayInt32
}

func buildArray(values []ast.Value, desc classify.Descriptor) ast.Array {
	pad := desc.PadBegin
	total := pad + len(values)
	arr := ast.Array{Type: desc.Type, PadBegin: pad}
	switch desc.Type {
	case ast.ArrayFloat64:
		arr.Float64s = make([]float64, total)
		for i, v := range values {
			arr.Float64s[pad+i] = v.AsFloat()
		}
	case ast.ArrayFloat32:
		arr.Float32s = make([]float32, total)
		for i, v := range values {
			if v.Kind == ast.ValueFloat && v.RawText != "" {
				if f32, err := strtod.ParseF32(v.RawText); err == nil {
					arr.Float32s[pad+i] = f32
					continue
				}
			}
			arr.Float32s[pad+i] = float32(v.AsFloat())
		}
	case ast.ArrayInt64:
		arr.Int64s = make([]int64, total)
		for i, v := range values {
			arr.Int64s[pad+i] = v.AsInt()
		}
	case ast.ArrayBool:
		arr.Bools = make([]bool, total)
		for i, v := range values {
			arr.Bools[pad+i] = v.Kind == ast.ValueBool && v.B
		}
	default:
		arr.Type = ast.ArrayInt32
		arr.Int32s = make([]int32, total)
		for i, v := range values {
			arr.Int32s[pad+i] = int32(v.AsInt())
		}
	}
	return arr
}
