package ufbx

import (
	"github.com/ufbxgo/ufbx/internal/finalize"
	"github.com/ufbxgo/ufbx/internal/propsys"
	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/internal/resolve"
	"github.com/ufbxgo/ufbx/math32"
)

// ElementID identifies one element within a loaded Scene.
type ElementID = readers.ElementID

// Metadata carries the top-level facts about how a scene was loaded,
// per spec.md §4.12's scene metadata population step, plus the
// document's FBXHeaderExtension/SceneInfo authoring fields.
type Metadata struct {
	Version        int32
	ASCII          bool
	Creator        string
	ElementCount   int
	TempMemoryUsed int64

	Author       string
	Title        string
	Comment      string
	ThumbnailRaw []byte
}

// Settings carries the document-wide axis and unit conventions declared
// by the top-level GlobalSettings node's property block: which of X/Y/Z
// (0/1/2) is up, front, and coord, the sign of each, and the scene's
// unit scale relative to centimeters.
type Settings struct {
	UpAxis                  int
	UpAxisSign              int
	FrontAxis               int
	FrontAxisSign           int
	CoordAxis               int
	CoordAxisSign           int
	UnitScaleFactor         float64
	OriginalUnitScaleFactor float64
}

// Node is one entry in Scene.Nodes: an element's resolved parent chain
// and world transform, alongside the underlying typed element.
type Node struct {
	ID          ElementID
	ParentID    ElementID
	HasParent   bool
	Name        string
	ToParent    *math32.Matrix4
	WorldMatrix *math32.Matrix4

	Mesh  *Mesh
	Light *readers.Light
	Bone  *readers.Bone

	Props *propsys.Props
}

// Scene is the fully resolved result of Load.
type Scene struct {
	Metadata Metadata
	Settings Settings

	Nodes []Node

	Meshes     map[ElementID]*Mesh
	Materials  map[ElementID]*readers.Material
	AnimStacks map[ElementID]*AnimStack

	byID map[ElementID]*Node
}

// Root returns the scene's synthetic root node (id 0), representing
// the implicit top-level coordinate frame every parentless Model
// connects to.
func (s *Scene) Root() *Node { return s.byID[0] }

// FindNode looks up a node by id, returning nil if it doesn't exist in
// the resolved scene (e.g. it was dropped for being unreachable from
// the root).
func (s *Scene) FindNode(id ElementID) *Node { return s.byID[id] }

func assembleScene(g *resolve.Graph, fin *finalize.Result, version int32, isASCII bool, hdr docHeader) *Scene {
	s := &Scene{
		Metadata: Metadata{
			Version: version, ASCII: isASCII, Creator: hdr.Creator, ElementCount: len(fin.Nodes),
			Author: hdr.Author, Title: hdr.Title, Comment: hdr.Comment, ThumbnailRaw: hdr.Thumbnail,
		},
		Settings:   hdr.Settings,
		Meshes:     map[ElementID]*Mesh{},
		Materials:  g.Materials,
		AnimStacks: map[ElementID]*AnimStack{},
		byID:       map[ElementID]*Node{},
	}

	for id, m := range g.Meshes {
		s.Meshes[id] = newMesh(m, g)
	}
	for id, as := range g.AnimStacks {
		s.AnimStacks[id] = newAnimStack(as, g)
	}

	s.Nodes = make([]Node, len(fin.Nodes))
	for i, fn := range fin.Nodes {
		n := Node{ID: fn.ID, ParentID: fn.ParentID, HasParent: fn.HasParent}
		if m, ok := g.Models[fn.ID]; ok {
			n.Name, n.Props = m.Name, m.Props
			n.ToParent = localTransform(&m.NodeHeader)
		}
		if l, ok := g.Lights[fn.ID]; ok {
			n.Name, n.Props = l.Name, l.Props
			n.Light = l
			n.ToParent = localTransform(&l.NodeHeader)
		}
		if b, ok := g.Bones[fn.ID]; ok {
			n.Name, n.Props = b.Name, b.Props
			n.Bone = b
			n.ToParent = localTransform(&b.NodeHeader)
		}
		if m, ok := g.Meshes[fn.ID]; ok {
			n.Name, n.Props = m.Name, m.Props
			n.Mesh = s.Meshes[fn.ID]
			n.ToParent = localTransform(&m.NodeHeader)
		}
		if n.ToParent == nil {
			n.ToParent = math32.NewMatrix4().Identity()
		}
		s.Nodes[i] = n
	}

	for i := range s.Nodes {
		s.byID[s.Nodes[i].ID] = &s.Nodes[i]
	}

	// World matrices: s.Nodes is in root-first (pre-) order because
	// finalize.walk appends a node before recursing into its children,
	// so a parent's WorldMatrix is always already set by the time its
	// children are visited.
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if !n.HasParent {
			n.WorldMatrix = n.ToParent.Clone()
			continue
		}
		n.WorldMatrix = math32.NewMatrix4()
		if parent := s.byID[n.ParentID]; parent != nil {
			n.WorldMatrix.MultiplyMatrices(parent.WorldMatrix, n.ToParent)
		} else {
			n.WorldMatrix.Copy(n.ToParent)
		}
	}

	return s
}
