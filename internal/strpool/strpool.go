// Package strpool interns strings into a single backing arena so that
// equal node and property names collapse to one allocation, and so the
// ~100 FBX keyword strings registered at startup can be compared to a
// parsed name by pointer rather than by content.
package strpool

import (
	"github.com/ufbxgo/ufbx/internal/arena"
	"github.com/ufbxgo/ufbx/internal/rhmap"
)

// Pool interns byte strings, keeping at most one copy of each distinct
// string per Pool instance.
type Pool struct {
	a             *arena.Arena
	table         *rhmap.Map[string, string]
	maxLen        int
	maxUnique     int
	staticByValue map[string]string
}

// Limits bounds interning to keep a malicious file from exhausting
// memory via a huge number of distinct names.
type Limits struct {
	MaxStringLength int // 0 means unlimited
	MaxStrings      int // 0 means unlimited
}

// New creates a Pool backed by a. Interned strings are copied into a
// unless they match one of the preregistered keyword statics.
func New(a *arena.Arena, limits Limits) *Pool {
	p := &Pool{
		a:             a,
		table:         rhmap.New[string, string](256, rhmap.FNV1a64),
		maxLen:        limits.MaxStringLength,
		maxUnique:     limits.MaxStrings,
		staticByValue: make(map[string]string, len(Keywords)),
	}
	for _, kw := range Keywords {
		p.staticByValue[kw] = kw
		p.table.Set(kw, kw)
	}
	return p
}

// Intern returns the pool's single copy of s. Repeated calls with equal
// content return the identical Go string header, so callers may compare
// pool results with ==.
func (p *Pool) Intern(s string) (string, error) {
	if p.maxLen != 0 && len(s) > p.maxLen {
		return "", ErrStringTooLong
	}
	if existing, ok := p.table.Get(s); ok {
		return existing, nil
	}
	if p.maxUnique != 0 && p.table.Len() >= p.maxUnique {
		return "", ErrTooManyStrings
	}
	buf := p.a.PushCopy([]byte(s), 1, len(s))
	copied := string(buf)
	p.table.Set(copied, copied)
	return copied, nil
}

// Lookup reports whether s is already interned, without allocating.
func (p *Pool) Lookup(s string) (string, bool) {
	return p.table.Get(s)
}

// Keywords lists the FBX grammar and type-name tokens preloaded as
// static (non-arena) strings so that hot-path name comparisons during
// parsing (is this node named "Properties70"? "Vertices"? "P"?) reduce
// to a pointer/content match against a string registered once at pool
// construction instead of a fresh allocation per file.
var Keywords = []string{
	"FBXHeaderExtension", "FileId", "CreationTime", "Creator",
	"GlobalSettings", "Documents", "Document", "References",
	"Definitions", "Version", "Count", "ObjectType", "PropertyTemplate",
	"Objects", "Connections", "Takes", "Take", "Model", "Geometry",
	"Material", "Texture", "Video", "Deformer", "Pose", "NodeAttribute",
	"AnimationStack", "AnimationLayer", "AnimationCurveNode",
	"AnimationCurve", "Properties60", "Properties70", "P", "C", "OO",
	"OP", "Vertices", "PolygonVertexIndex", "Edges", "Layer",
	"LayerElement", "LayerElementNormal", "LayerElementBinormal",
	"LayerElementTangent", "LayerElementUV", "LayerElementColor",
	"LayerElementMaterial", "LayerElementSmoothing",
	"LayerElementVertexCrease", "LayerElementEdgeCrease", "Normals",
	"NormalsW", "Binormals", "BinormalsW", "Tangents", "TangentsW", "UV",
	"UVIndex", "Colors", "ColorIndex", "Materials", "Smoothing",
	"VertexCrease", "EdgeCrease", "Mapping", "ReferenceInformationType",
	"ByPolygonVertex", "ByVertex", "ByVertice", "ByPolygon", "ByEdge",
	"AllSame", "Direct", "IndexToDirect", "KeyTime", "KeyValueFloat",
	"KeyAttrFlags", "KeyAttrDataFloat", "KeyAttrRefCount", "Default",
	"Channel", "Key", "Lcl Translation", "Lcl Rotation", "Lcl Scaling",
	"RotationOffset", "RotationPivot", "PreRotation", "PostRotation",
	"ScalingOffset", "ScalingPivot", "RotationOrder", "InheritType",
	"Skin", "Cluster", "Indexes", "Weights", "Transform", "TransformLink",
	"Bone", "LimbNode", "Light", "Camera", "Null",
}

var (
	// ErrStringTooLong is returned when a string exceeds Limits.MaxStringLength.
	ErrStringTooLong = poolError("strpool: string exceeds maximum length")
	// ErrTooManyStrings is returned once Limits.MaxStrings distinct strings are interned.
	ErrTooManyStrings = poolError("strpool: too many distinct strings")
)

type poolError string

func (e poolError) Error() string { return string(e) }
