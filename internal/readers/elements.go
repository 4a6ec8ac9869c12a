// Package readers translates classified internal/ast.Node trees into
// staged, typed records per FBX object kind (Model/Mesh/Material/Light/
// Bone/Deformer/AnimStack/AnimLayer/AnimProp/AnimCurve/Skin), plus the
// auxiliary Attribute and SkinDeformer records that exist only to be
// merged into their owner during connection resolution. Every record
// carries the FBX id it was read from (or synthesized, for pre-7000
// files — see ElementID) and has its relational fields (Parent,
// Materials, Curves, ...) filled in later by internal/resolve.
package readers

import (
	"github.com/ufbxgo/ufbx/internal/propsys"
)

// ElementID is the 64-bit identity every connectable FBX element has.
// Post-7000 files supply it directly off the node's first value;
// pre-7000 files synthesize it from the interned "Type::Name" string
// (see SynthesizeID).
type ElementID uint64

// ElementKind tags which staged table an ElementID resolves against.
type ElementKind uint8

const (
	KindModel ElementKind = iota
	KindMesh
	KindMaterial
	KindLight
	KindBone
	KindDeformer
	KindAnimStack
	KindAnimLayer
	KindAnimCurveNode
	KindAnimCurve
	KindSkinCluster
	KindAttribute
)

// SynthesizeID derives a stable id for pre-7000 elements, which the
// wire format never assigns an explicit 64-bit id to. Hashing the
// interned "Type::Name" string's bytes (rather than literally reusing
// its pointer, as the C original does) gives the same stability
// property — equal strings produce equal ids — without relying on Go
// string interning guarantees the language doesn't make.
func SynthesizeID(typeName, name string) ElementID {
	h := uint64(1469598103934665603) // FNV-1a offset basis
	for _, c := range typeName + "::" + name {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return ElementID(h)
}

// NodeHeader is the common header Model/Mesh/Light/Bone embed: type
// tag, name, properties, and (filled by internal/resolve and internal/
// finalize) the parent/children/transform fields.
type NodeHeader struct {
	ID    ElementID
	Kind  ElementKind
	Name  string
	Props *propsys.Props

	RawInheritType int32

	ParentID ElementID
	HasParent bool

	ChildIDs []ElementID

	LocalTranslation [3]float64
	LocalRotation    [3]float64
	LocalScaling     [3]float64
	RotationOffset   [3]float64
	RotationPivot    [3]float64
	PreRotation      [3]float64
	PostRotation     [3]float64
	ScalingOffset    [3]float64
	ScalingPivot     [3]float64
	RotationOrder    int32
}

// Model is a plain transform node (also the synthesized scene root).
type Model struct {
	NodeHeader
}

// Light is a light-emitting node.
type Light struct {
	NodeHeader
	LightKind int32 // 0 point, 1 directional, 2 spot, 3 area, 4 volume
	Color     [3]float64
	Intensity float64
}

// Bone is a skeleton joint node (FBX "LimbNode").
type Bone struct {
	NodeHeader
}

// Mapping and ReferenceMode name a LayerElement's indexing scheme.
type Mapping int8

const (
	MappingByPolygonVertex Mapping = iota
	MappingByVertex
	MappingByPolygon
	MappingByEdge
	MappingAllSame
)

type ReferenceMode int8

const (
	ReferenceDirect ReferenceMode = iota
	ReferenceIndexToDirect
)

// VertexStream is one LayerElement's decoded payload: either a real
// []int32 index buffer, or a lazily-materialized sentinel the finalizer
// replaces with a concrete buffer (spec.md §4.7 point 5, §9 "Sentinel
// index buffers").
type VertexStream struct {
	Name      string
	TypedIndex int32
	Mapping   Mapping
	Reference ReferenceMode
	Values    []float64 // flattened, stride implied by the stream kind (3 for vec3, 2 for uv, 4 for rgba)
	Stride    int
	Indices   []int32
	Sentinel  SentinelKind
}

// SentinelKind distinguishes a deferred placeholder buffer from a real
// owned one, per spec.md §9's suggested two-state-enum redesign.
type SentinelKind int8

const (
	SentinelOwned SentinelKind = iota
	SentinelZero
	SentinelConsecutive
)

// Face is one polygon's span into the (unnegated) index buffer.
type Face struct {
	IndexBegin int32
	NumIndices int32
}

// Mesh is a staged geometry record.
type Mesh struct {
	NodeHeader

	Vertices         []float64 // flattened xyz
	PolygonVertexIndex []int32   // un-negated; NumIndices per face tracked separately
	Faces            []Face
	NumBadFaces      int
	Edges            []int32

	Normals, Binormals, Tangents []VertexStream
	UVSets, ColorSets            []VertexStream
	VertexCrease, EdgeCrease     VertexStream
	Smoothing                    VertexStream
	MaterialStream               VertexStream

	MaterialIDs []ElementID // filled by resolve, one per connected material
	SkinIDs     []ElementID // filled by resolve, one per cluster that binds a bone

	FaceMaterial []int32 // after finalize: clamped into [0, len(Materials))
}

// Material is a staged material record.
type Material struct {
	ID    ElementID
	Name  string
	Props *propsys.Props

	AmbientColor  [3]float64
	DiffuseColor  [3]float64
	SpecularColor [3]float64
}

// SkinCluster is one bone binding within a skin deformer.
type SkinCluster struct {
	ID            ElementID
	BoneID        ElementID
	HasBone       bool
	Indices       []int32
	Weights       []float64
	Transform     [16]float64
	TransformLink [16]float64
}

// SkinDeformer is the parse-time aux record holding a list of cluster
// ids, merged into its owning mesh's SkinIDs during resolve.
type SkinDeformer struct {
	ID         ElementID
	ClusterIDs []ElementID
}

// Attribute is a parse-time aux record for a NodeAttribute block (e.g.
// a light or camera's property bag) that gets proxied to its owning
// Model during connection resolution (spec.md §4.11: "attributes are
// proxied to their owning node").
type Attribute struct {
	ID    ElementID
	Props *propsys.Props
	Kind  string // "Light", "Camera", "Null", ...
}

// AnimStack is a staged animation take.
type AnimStack struct {
	ID          ElementID
	Name        string
	LayerIDs    []ElementID
	TimeBegin   float64
	TimeEnd     float64
}

// AnimLayer owns a sorted AnimProp list once resolve fills it.
type AnimLayer struct {
	ID       ElementID
	Name     string
	PropIDs  []ElementID
}

// AnimProp binds one named property on one target element to up to
// three component curves.
type AnimProp struct {
	ID       ElementID
	Target   ElementID
	HasTarget bool
	Name     string
	CurveIDs [3]ElementID
	HasCurve [3]bool
}

// Interpolation names one keyframe segment's interpolation mode.
type Interpolation int8

const (
	InterpConstantPrev Interpolation = iota
	InterpConstantNext
	InterpLinear
	InterpCubic
)

// Keyframe is one AnimCurve sample.
type Keyframe struct {
	Time          float64 // seconds
	Value         float64
	Interp        Interpolation
	LeftTangent   [2]float64 // (dx, dy) relative offset
	RightTangent  [2]float64
	AutoTangent   bool
}

// AnimCurve is a staged, sorted keyframe array.
type AnimCurve struct {
	ID       ElementID
	Default  float64
	Keyframes []Keyframe
}

// newVertexStream is a parsed layer element shared by geometry
// sub-readers before Mapping/Reference indirection is resolved against
// the owning mesh's position/polygon-index buffers.
func newVertexStream(name string, mapping Mapping, ref ReferenceMode) VertexStream {
	return VertexStream{Name: name, Mapping: mapping, Reference: ref}
}
