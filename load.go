package ufbx

import (
	"bytes"
	"io"
	"os"

	"github.com/ufbxgo/ufbx/internal/arena"
	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/asciifmt"
	"github.com/ufbxgo/ufbx/internal/binaryfmt"
	"github.com/ufbxgo/ufbx/internal/finalize"
	"github.com/ufbxgo/ufbx/internal/propsys"
	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/internal/resolve"
	"github.com/ufbxgo/ufbx/internal/strpool"
)

// LoadFile reads and parses the FBX file at path.
func LoadFile(path string, opts *Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapErr(KindTruncated, err, "LoadFile", path)
	}
	return Load(data, opts)
}

// LoadReader reads r fully and parses it as one FBX document.
func LoadReader(r io.Reader, opts *Options) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapErr(KindTruncated, err, "LoadReader", "")
	}
	return Load(data, opts)
}

// Load parses data as a binary or ASCII FBX document and resolves it
// into a Scene, per spec.md §2's pipeline: tokenize -> parse tree ->
// object readers -> connection resolver -> finalize.
func Load(data []byte, opts *Options) (scene *Scene, err error) {
	opts = fillDefaults(opts)

	defer func() {
		if r := recover(); r != nil {
			le, ok := arena.AsLimitError(r)
			if !ok {
				panic(r)
			}
			scene, err = nil, wrapErr(KindAllocation, le, "Load", "arena limit")
		}
	}()

	a := arena.New(arena.Limits{MaxMemory: int(opts.MaxResultMemory), MaxAllocs: int(opts.MaxResultAllocs), HugeSize: int(opts.ResultHugeSize)})
	pool := strpool.New(a, strpool.Limits{MaxStrings: opts.MaxStrings, MaxStringLength: opts.MaxStringLength})

	var root *ast.Node
	var version int32
	var isASCII bool

	if binaryfmt.Magic(data) {
		p, v, err := binaryfmt.New(data, pool, binaryfmt.Limits{
			MaxNodeDepth: opts.MaxNodeDepth, MaxNodeChildren: opts.MaxNodeChildren,
			MaxArraySize: opts.MaxArraySize, MaxNodeValues: opts.MaxNodeValues,
		})
		if err != nil {
			return nil, wrapErr(KindBadMagic, err, "Load", "binary header")
		}
		root, err = p.ParseDocument()
		if err != nil {
			return nil, wrapErr(KindBadNode, err, "Load", "binary body")
		}
		version = v
	} else {
		isASCII = true
		src := string(bytes.TrimLeft(data, "\xef\xbb\xbf"))
		version = asciifmt.DetectVersion(src)
		p := asciifmt.New(src, pool, asciifmt.Limits{
			MaxNodeDepth: opts.MaxNodeDepth, MaxNodeChildren: opts.MaxNodeChildren,
			MaxTokenLength: opts.MaxASCIITokenLength,
		})
		var err error
		root, err = p.ParseDocument()
		if err != nil {
			return nil, wrapErr(KindBadNode, err, "Load", "ascii body")
		}
	}

	g, hdr := buildGraph(root, version, opts)
	resolve.Resolve(g)

	fin, err := finalize.Run(g)
	if err != nil {
		return nil, wrapErr(KindMaxDepth, err, "Load", "hierarchy walk")
	}

	return assembleScene(g, fin, version, isASCII, hdr), nil
}

// docHeader carries the document-wide facts that live outside the
// Objects/Connections graph: FBXHeaderExtension's Creator and SceneInfo
// block, and the top-level GlobalSettings property block.
type docHeader struct {
	Creator   string
	Author    string
	Title     string
	Comment   string
	Thumbnail []byte
	Settings  Settings
}

// readHeader reads FBXHeaderExtension/Creator and FBXHeaderExtension/
// SceneInfo. SceneInfo carries a "MetaData" child whose Author/Title/
// Comment children are each a single-value scalar node, and an optional
// "Thumbnail" child whose "Content" grandchild holds the raw image
// bytes (the binary grammar's 'R' type decodes straight to a Go string
// of the undecoded bytes, see internal/binaryfmt's parseValue).
func readHeader(root *ast.Node) docHeader {
	var h docHeader
	hdr := root.Child("FBXHeaderExtension")
	if hdr == nil {
		return h
	}
	if c := hdr.Child("Creator"); c != nil {
		h.Creator = c.ValueString(0)
	}
	si := hdr.Child("SceneInfo")
	if si == nil {
		return h
	}
	if md := si.Child("MetaData"); md != nil {
		if a := md.Child("Author"); a != nil {
			h.Author = a.ValueString(0)
		}
		if t := md.Child("Title"); t != nil {
			h.Title = t.ValueString(0)
		}
		if c := md.Child("Comment"); c != nil {
			h.Comment = c.ValueString(0)
		}
	}
	if th := si.Child("Thumbnail"); th != nil {
		if c := th.Child("Content"); c != nil {
			h.Thumbnail = []byte(c.ValueString(0))
		}
	}
	return h
}

// readSettings reads the top-level GlobalSettings node's property
// block via the same Properties70/60 reader used for every other
// object, falling back to FBX's documented axis/unit defaults (Y-up,
// Z-front, X-coord, unit scale 1) when the node or a given property is
// absent.
func readSettings(root *ast.Node) Settings {
	s := Settings{UpAxis: 1, UpAxisSign: 1, FrontAxis: 2, FrontAxisSign: 1, CoordAxis: 0, CoordAxisSign: 1, UnitScaleFactor: 1, OriginalUnitScaleFactor: 1}
	gs := root.Child("GlobalSettings")
	if gs == nil {
		return s
	}
	props := readers.ReadProps(gs, nil)
	if v, ok := props.Find("UpAxis"); ok {
		s.UpAxis = int(v.ValueInt)
	}
	if v, ok := props.Find("UpAxisSign"); ok {
		s.UpAxisSign = int(v.ValueInt)
	}
	if v, ok := props.Find("FrontAxis"); ok {
		s.FrontAxis = int(v.ValueInt)
	}
	if v, ok := props.Find("FrontAxisSign"); ok {
		s.FrontAxisSign = int(v.ValueInt)
	}
	if v, ok := props.Find("CoordAxis"); ok {
		s.CoordAxis = int(v.ValueInt)
	}
	if v, ok := props.Find("CoordAxisSign"); ok {
		s.CoordAxisSign = int(v.ValueInt)
	}
	if v, ok := props.Find("UnitScaleFactor"); ok {
		s.UnitScaleFactor = v.ValueReal
	}
	if v, ok := props.Find("OriginalUnitScaleFactor"); ok {
		s.OriginalUnitScaleFactor = v.ValueReal
	}
	return s
}

// buildGraph dispatches every "Objects" child to the matching reader,
// collects Definitions templates and Connections tuples, and handles
// the pre-7000 "Takes" section, producing an unresolved resolve.Graph.
func buildGraph(root *ast.Node, version int32, opts *Options) (*resolve.Graph, docHeader) {
	g := &resolve.Graph{
		Models: map[readers.ElementID]*readers.Model{}, Bones: map[readers.ElementID]*readers.Bone{},
		Meshes: map[readers.ElementID]*readers.Mesh{}, Lights: map[readers.ElementID]*readers.Light{},
		Materials: map[readers.ElementID]*readers.Material{}, Attributes: map[readers.ElementID]*readers.Attribute{},
		Deformers: map[readers.ElementID]*readers.SkinDeformer{}, Clusters: map[readers.ElementID]*readers.SkinCluster{},
		AnimStacks: map[readers.ElementID]*readers.AnimStack{}, AnimLayers: map[readers.ElementID]*readers.AnimLayer{},
		AnimProps: map[readers.ElementID]*readers.AnimProp{}, AnimCurves: map[readers.ElementID]*readers.AnimCurve{},
		RootID: 0,
	}
	g.Models[0] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 0, Kind: readers.KindModel, Name: "RootNode"}}

	templates := readTemplates(root)
	hdr := readHeader(root)
	hdr.Settings = readSettings(root)

	nextSynthetic := uint64(1) << 62
	nextID := func() readers.ElementID {
		nextSynthetic++
		return readers.ElementID(nextSynthetic)
	}

	if objs := root.Child("Objects"); objs != nil {
		for _, n := range objs.Children {
			id := idOf(n, n.Name, nextID)
			switch n.Name {
			case "Model":
				if readers.ModelSubType(n) == "LimbNode" {
					g.Bones[id] = readers.ReadBone(n, id, templates[n.Name])
				} else {
					g.Models[id] = readers.ReadModel(n, id, templates[n.Name])
				}
			case "Mesh", "Geometry":
				if !opts.IgnoreGeometry {
					g.Meshes[id] = readers.ReadMesh(n, id, templates["Geometry"])
				}
			case "Material":
				g.Materials[id] = readers.ReadMaterial(n, id, templates[n.Name])
			case "NodeAttribute":
				g.Attributes[id] = readers.ReadAttribute(n, id, templates[n.Name])
			case "LimbNode":
				g.Bones[id] = readers.ReadBone(n, id, templates["Model"])
			case "Deformer":
				if readers.DeformerSubType(n) == "Skin" {
					g.Deformers[id] = readers.ReadSkinDeformer(id)
				} else {
					g.Clusters[id] = readers.ReadSkinCluster(n, id)
				}
			case "AnimationStack":
				if !opts.IgnoreAnimation {
					g.AnimStacks[id] = readers.ReadAnimStack(n, id)
				}
			case "AnimationLayer":
				if !opts.IgnoreAnimation {
					g.AnimLayers[id] = readers.ReadAnimLayer(n, id)
				}
			case "AnimationCurveNode":
				if !opts.IgnoreAnimation {
					g.AnimProps[id] = readers.ReadAnimPropFromCurveNode(id)
				}
			case "AnimationCurve":
				if !opts.IgnoreAnimation {
					g.AnimCurves[id] = readers.ReadAnimCurve(n, id)
				}
			}
		}
	}

	if conns := root.Child("Connections"); conns != nil {
		for _, c := range conns.ChildrenNamed("C") {
			kind := c.ValueString(0)
			child := readers.ElementID(c.Value(1).AsInt())
			parent := readers.ElementID(c.Value(2).AsInt())
			prop := ""
			if kind == "OP" && c.NumValues > 3 {
				prop = c.ValueString(3)
			}
			g.Connections = append(g.Connections, resolve.Connection{ParentID: parent, ChildID: child, Prop: prop})
		}
	}

	if takes := root.Child("Takes"); takes != nil && !opts.IgnoreAnimation {
		for _, t := range takes.ChildrenNamed("Take") {
			stackID, layerID := nextID(), nextID()
			tr := readers.ReadTake(t, stackID, layerID, nextID)
			g.AnimStacks[stackID] = tr.Stack
			g.AnimLayers[layerID] = tr.Layer
			for i, p := range tr.Props {
				g.AnimProps[p.ID] = p
				g.Connections = append(g.Connections, resolve.Connection{ParentID: layerID, ChildID: p.ID})
				if target, ok := modelIDByName(g, tr.TargetNames[i]); ok {
					g.Connections = append(g.Connections, resolve.Connection{ParentID: target, ChildID: p.ID})
				}
			}
			for _, c := range tr.Curves {
				g.AnimCurves[c.ID] = c
			}
		}
	}

	// Pre-7000 files never connect top-level Models to a root id; those
	// left parentless become direct children of the synthetic root.
	hasParent := map[readers.ElementID]bool{}
	for _, c := range g.Connections {
		if _, isCluster := g.Clusters[c.ParentID]; !isCluster {
			hasParent[c.ChildID] = true
		}
	}
	for id := range g.Models {
		if id != 0 && !hasParent[id] {
			g.Connections = append(g.Connections, resolve.Connection{ParentID: 0, ChildID: id})
		}
	}

	return g, hdr
}

func modelIDByName(g *resolve.Graph, name string) (readers.ElementID, bool) {
	for id, m := range g.Models {
		if m.Name == name {
			return id, true
		}
	}
	return 0, false
}

// idOf returns a node's own post-7000 id (first scalar value) or, for
// pre-7000 files that never assign one, a synthesized id derived from
// its type and name.
func idOf(n *ast.Node, typeName string, next func() readers.ElementID) readers.ElementID {
	if n.NumValues > 0 && n.Value(0).Kind == ast.ValueInt {
		return readers.ElementID(n.Value(0).AsInt())
	}
	name := ""
	if n.NumValues > 1 {
		name = n.ValueString(1)
	}
	if name == "" {
		return next()
	}
	return readers.SynthesizeID(typeName, name)
}

// readTemplates collects each object type's "PropertyTemplate" default
// props from the top-level "Definitions" section (spec.md §4.6's
// chained Props.Defaults lookup).
func readTemplates(root *ast.Node) map[string]*propsys.Props {
	out := map[string]*propsys.Props{}
	defs := root.Child("Definitions")
	if defs == nil {
		return out
	}
	for _, ot := range defs.ChildrenNamed("ObjectType") {
		typeName := ot.ValueString(0)
		for _, pt := range ot.ChildrenNamed("PropertyTemplate") {
			out[typeName] = readers.ReadProps(pt, nil)
		}
	}
	return out
}
