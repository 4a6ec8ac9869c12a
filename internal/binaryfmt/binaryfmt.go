// Package binaryfmt parses the binary FBX container (magic preamble,
// length-prefixed nodes, typed scalar/array property records) into the
// shared internal/ast.Node tree. It operates over an already-buffered
// byte slice; the root package's LoadReader gathers that slice from a
// streaming source with io.ReadAll before handing it here.
package binaryfmt

import (
	"encoding/binary"
	"errors"

	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/classify"
	"github.com/ufbxgo/ufbx/internal/inflate"
	"github.com/ufbxgo/ufbx/internal/strpool"
)

var (
	ErrBadMagic      = errors.New("binaryfmt: bad magic header")
	ErrTruncated     = errors.New("binaryfmt: truncated node record")
	ErrBadArrayType  = errors.New("binaryfmt: unknown array type code")
	ErrBadValueType  = errors.New("binaryfmt: unknown value type code")
	ErrBadEncoding   = errors.New("binaryfmt: unknown array encoding")
	ErrMaxDepth      = errors.New("binaryfmt: max node depth exceeded")
	ErrTooManyValues = errors.New("binaryfmt: too many values in one node")
)

var magic = []byte("Kaydara FBX Binary  \x00\x1a\x00")

// Limits bounds parsing, mirroring the relevant Options fields.
type Limits struct {
	MaxNodeDepth    int
	MaxNodeValues   int
	MaxNodeChildren int
	MaxArraySize    int
}

// Parser holds parse state for one binary document.
type Parser struct {
	data    []byte
	pos     int
	version int32
	limits  Limits
	pool    *strpool.Pool
	retain  inflate.Retain
}

// Magic reports whether data begins with the binary FBX preamble.
func Magic(data []byte) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == string(magic)
}

// New constructs a parser positioned just after the magic+version
// preamble; it returns the parsed version number.
func New(data []byte, pool *strpool.Pool, limits Limits) (*Parser, int32, error) {
	if !Magic(data) {
		return nil, 0, ErrBadMagic
	}
	if len(data) < len(magic)+4 {
		return nil, 0, ErrTruncated
	}
	version := int32(binary.LittleEndian.Uint32(data[len(magic):]))
	p := &Parser{
		data:    data,
		pos:     len(magic) + 4,
		version: version,
		limits:  limits,
		pool:    pool,
	}
	return p, version, nil
}

func (p *Parser) headerSize() int {
	if p.version >= 7500 {
		return 25
	}
	return 13
}

// offsetField reads either a u32 or u64 field depending on version.
func (p *Parser) offsetField() (uint64, error) {
	if p.version >= 7500 {
		if p.pos+8 > len(p.data) {
			return 0, ErrTruncated
		}
		v := binary.LittleEndian.Uint64(p.data[p.pos:])
		p.pos += 8
		return v, nil
	}
	if p.pos+4 > len(p.data) {
		return 0, ErrTruncated
	}
	v := uint64(binary.LittleEndian.Uint32(p.data[p.pos:]))
	p.pos += 4
	return v, nil
}

// ParseDocument parses the whole top-level node stream into a synthetic
// root node whose children are the toplevel sections.
func (p *Parser) ParseDocument() (*ast.Node, error) {
	root := &ast.Node{Name: ""}
	for p.pos < len(p.data) {
		if p.remainingLooksLikeNull() {
			break
		}
		n, ok, err := p.parseNode(classify.StateRoot, 0)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		root.Children = append(root.Children, n)
	}
	return root, nil
}

func (p *Parser) remainingLooksLikeNull() bool {
	hs := p.headerSize()
	if p.pos+hs > len(p.data) {
		return true
	}
	for _, b := range p.data[p.pos : p.pos+hs] {
		if b != 0 {
			return false
		}
	}
	return true
}

// parseNode parses one node record (header, name, values, children)
// rooted at byte offset p.pos.
func (p *Parser) parseNode(state classify.State, depth int) (*ast.Node, bool, error) {
	if depth > p.limits.MaxNodeDepth && p.limits.MaxNodeDepth > 0 {
		return nil, false, ErrMaxDepth
	}
	endOffset, err := p.offsetField()
	if err != nil {
		return nil, false, err
	}
	numValues, err := p.offsetField()
	if err != nil {
		return nil, false, err
	}
	_, err = p.offsetField() // values_len, unused: we track position directly
	if err != nil {
		return nil, false, err
	}
	if p.pos >= len(p.data) {
		return nil, false, ErrTruncated
	}
	nameLen := int(p.data[p.pos])
	p.pos++
	if endOffset == 0 && numValues == 0 && nameLen == 0 {
		return nil, false, nil // null record
	}
	if p.pos+nameLen > len(p.data) {
		return nil, false, ErrTruncated
	}
	rawName := string(p.data[p.pos : p.pos+nameLen])
	p.pos += nameLen
	name, err := p.pool.Intern(rawName)
	if err != nil {
		return nil, false, err
	}

	n := &ast.Node{Name: name}

	childState := classify.ChildState(state, name)
	// The binary format is self-describing: an array property's type tag
	// is always one of the lowercase letters below, a scalar's always
	// uppercase. The classifier still supplies the padding/lifetime hint
	// for the array when this node is a recognized one, defaulting to no
	// padding for arrays the table doesn't name.
	if numValues == 1 && p.pos < len(p.data) && isArrayTag(p.data[p.pos]) {
		desc, _ := classify.Classify(state, name)
		arr, err := p.parseArray(desc)
		if err != nil {
			return nil, false, err
		}
		n.IsArray = true
		n.Array = arr
	} else {
		if int(numValues) > p.limits.MaxNodeValues && p.limits.MaxNodeValues > 0 {
			return nil, false, ErrTooManyValues
		}
		for i := 0; i < int(numValues) && i < 7; i++ {
			v, err := p.parseValue()
			if err != nil {
				return nil, false, err
			}
			n.Values[i] = v
			n.NumValues++
		}
		for i := 7; i < int(numValues); i++ {
			if _, err := p.parseValue(); err != nil {
				return nil, false, err
			}
		}
	}

	for uint64(p.pos) < endOffset {
		child, ok, err := p.parseNode(childState, depth+1)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		n.Children = append(n.Children, child)
		if p.limits.MaxNodeChildren > 0 && len(n.Children) > p.limits.MaxNodeChildren {
			return nil, false, errors.New("binaryfmt: too many children")
		}
	}
	if endOffset != 0 {
		p.pos = int(endOffset)
	}
	return n, true, nil
}

func (p *Parser) parseValue() (ast.Value, error) {
	if p.pos >= len(p.data) {
		return ast.Value{}, ErrTruncated
	}
	tag := p.data[p.pos]
	p.pos++
	switch tag {
	case 'Y':
		if p.pos+2 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		v := int16(binary.LittleEndian.Uint16(p.data[p.pos:]))
		p.pos += 2
		return ast.Value{Kind: ast.ValueInt, I: int64(v)}, nil
	case 'I':
		if p.pos+4 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		v := int32(binary.LittleEndian.Uint32(p.data[p.pos:]))
		p.pos += 4
		return ast.Value{Kind: ast.ValueInt, I: int64(v)}, nil
	case 'L':
		if p.pos+8 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		v := int64(binary.LittleEndian.Uint64(p.data[p.pos:]))
		p.pos += 8
		return ast.Value{Kind: ast.ValueInt, I: v}, nil
	case 'F':
		if p.pos+4 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		bits := binary.LittleEndian.Uint32(p.data[p.pos:])
		p.pos += 4
		return ast.Value{Kind: ast.ValueFloat, F: float64(float32frombits(bits))}, nil
	case 'D':
		if p.pos+8 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		bits := binary.LittleEndian.Uint64(p.data[p.pos:])
		p.pos += 8
		return ast.Value{Kind: ast.ValueFloat, F: float64frombits(bits)}, nil
	case 'C':
		if p.pos+1 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		v := p.data[p.pos] != 0
		p.pos++
		return ast.Value{Kind: ast.ValueBool, B: v}, nil
	case 'B':
		if p.pos+1 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		v := int8(p.data[p.pos])
		p.pos++
		return ast.Value{Kind: ast.ValueInt, I: int64(v)}, nil
	case 'S', 'R':
		if p.pos+4 > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		n := int(binary.LittleEndian.Uint32(p.data[p.pos:]))
		p.pos += 4
		if p.pos+n > len(p.data) {
			return ast.Value{}, ErrTruncated
		}
		s := string(p.data[p.pos : p.pos+n])
		p.pos += n
		return ast.Value{Kind: ast.ValueString, S: s}, nil
	}
	return ast.Value{}, ErrBadValueType
}

// parseArray decodes one typed array property: a one-byte type tag
// (redundant with the classifier's expectation but still present on
// the wire), then {length, encoding, encoded_size}, then the payload.
func (p *Parser) parseArray(desc classify.Descriptor) (ast.Array, error) {
	if p.pos+1 > len(p.data) {
		return ast.Array{}, ErrTruncated
	}
	typeTag := p.data[p.pos]
	p.pos++
	if p.pos+12 > len(p.data) {
		return ast.Array{}, ErrTruncated
	}
	length := int(binary.LittleEndian.Uint32(p.data[p.pos:]))
	encoding := binary.LittleEndian.Uint32(p.data[p.pos+4:])
	encodedSize := int(binary.LittleEndian.Uint32(p.data[p.pos+8:]))
	p.pos += 12
	if p.pos+encodedSize > len(p.data) {
		return ast.Array{}, ErrTruncated
	}
	raw := p.data[p.pos : p.pos+encodedSize]
	p.pos += encodedSize

	elemSize := elementSize(typeTag)
	if elemSize == 0 {
		return ast.Array{}, ErrBadArrayType
	}

	var payload []byte
	switch encoding {
	case 0:
		payload = raw
	case 1:
		payload = make([]byte, length*elemSize)
		if _, err := inflate.Inflate(payload, raw, &p.retain); err != nil {
			return ast.Array{}, err
		}
	default:
		return ast.Array{}, ErrBadEncoding
	}

	arr := ast.Array{PadBegin: desc.PadBegin}
	pad := desc.PadBegin
	total := pad + length

	switch typeTag {
	case 'b':
		arr.Type = ast.ArrayBool
		arr.Bools = make([]bool, total)
		for i := 0; i < length; i++ {
			arr.Bools[pad+i] = payload[i] != 0
		}
	case 'c':
		arr.Type = ast.ArrayInt32
		arr.Int32s = make([]int32, total)
		for i := 0; i < length; i++ {
			arr.Int32s[pad+i] = int32(payload[i])
		}
	case 'i':
		arr.Type = ast.ArrayInt32
		arr.Int32s = make([]int32, total)
		for i := 0; i < length; i++ {
			arr.Int32s[pad+i] = int32(binary.LittleEndian.Uint32(payload[i*4:]))
		}
	case 'l':
		arr.Type = ast.ArrayInt64
		arr.Int64s = make([]int64, total)
		for i := 0; i < length; i++ {
			arr.Int64s[pad+i] = int64(binary.LittleEndian.Uint64(payload[i*8:]))
		}
	case 'f':
		arr.Type = ast.ArrayFloat32
		arr.Float32s = make([]float32, total)
		for i := 0; i < length; i++ {
			arr.Float32s[pad+i] = float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
		}
	case 'd':
		arr.Type = ast.ArrayFloat64
		arr.Float64s = make([]float64, total)
		for i := 0; i < length; i++ {
			arr.Float64s[pad+i] = float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
		}
	default:
		return ast.Array{}, ErrBadArrayType
	}
	return arr, nil
}

func isArrayTag(tag byte) bool {
	switch tag {
	case 'b', 'c', 'i', 'l', 'f', 'd':
		return true
	}
	return false
}

func elementSize(tag byte) int {
	switch tag {
	case 'b', 'c':
		return 1
	case 'i', 'f':
		return 4
	case 'l', 'd':
		return 8
	}
	return 0
}
