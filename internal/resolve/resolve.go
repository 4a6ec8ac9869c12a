// Package resolve implements the two-pass connection resolver
// (spec.md §4.11): pass 1 counts how many children/materials/layers/
// curves/clusters each element needs; pass 2 allocates and fills those
// lists. Connections are {parent_id, child_id, prop_name?} tuples read
// from the "Connections" top-level section; attribute connections are
// proxied to their owning node.
package resolve

import (
	"sort"

	"github.com/ufbxgo/ufbx/internal/readers"
)

// Connection is one parsed {parent, child, property?} tuple. "Parent"
// and "Child" follow the FBX wire naming (OO: child-of-parent,
// OP: child-of-parent-property); Prop is empty for OO connections.
type Connection struct {
	ParentID readers.ElementID
	ChildID  readers.ElementID
	Prop     string
}

// Graph is the set of staged records a document produced, keyed by id,
// plus the raw connection list; Resolve wires them together in place.
type Graph struct {
	Models      map[readers.ElementID]*readers.Model
	Bones       map[readers.ElementID]*readers.Bone
	Meshes      map[readers.ElementID]*readers.Mesh
	Lights      map[readers.ElementID]*readers.Light
	Materials   map[readers.ElementID]*readers.Material
	Attributes  map[readers.ElementID]*readers.Attribute
	Deformers   map[readers.ElementID]*readers.SkinDeformer
	Clusters    map[readers.ElementID]*readers.SkinCluster
	AnimStacks  map[readers.ElementID]*readers.AnimStack
	AnimLayers  map[readers.ElementID]*readers.AnimLayer
	AnimProps   map[readers.ElementID]*readers.AnimProp
	AnimCurves  map[readers.ElementID]*readers.AnimCurve

	Connections []Connection

	RootID readers.ElementID
}

// nodeOf reports whether id names anything nodeable: a Model,
// Mesh, Light, or Bone — the only things that can be another element's
// parent in the scene hierarchy.
func (g *Graph) nodeOf(id readers.ElementID) (*readers.NodeHeader, bool) {
	if m, ok := g.Models[id]; ok {
		return &m.NodeHeader, true
	}
	if m, ok := g.Meshes[id]; ok {
		return &m.NodeHeader, true
	}
	if l, ok := g.Lights[id]; ok {
		return &l.NodeHeader, true
	}
	if b, ok := g.Bones[id]; ok {
		return &b.NodeHeader, true
	}
	return nil, false
}

// Resolve runs both passes over g.Connections, wiring every relation
// spec.md §4.11 names.
func Resolve(g *Graph) {
	// Pass 1: counts only.
	childCount := map[readers.ElementID]int{}
	materialCount := map[readers.ElementID]int{}
	layerCount := map[readers.ElementID]int{}
	clusterCount := map[readers.ElementID]int{}
	propCount := map[readers.ElementID]int{}

	for _, c := range g.Connections {
		switch {
		case isAttribute(g, c.ChildID):
			// proxied to owner below; no count contribution of its own
		case isMaterial(g, c.ChildID):
			materialCount[c.ParentID]++
		case isAnimLayer(g, c.ChildID):
			layerCount[c.ParentID]++
		case isAnimProp(g, c.ChildID):
			propCount[c.ParentID]++
		case isSkinDeformer(g, c.ChildID):
			// deformer's own cluster count handled via its own connections
		case isSkinCluster(g, c.ChildID):
			clusterCount[c.ParentID]++
		default:
			if _, ok := g.nodeOf(c.ChildID); ok {
				childCount[c.ParentID]++
			}
		}
	}

	// Between passes: allocate (Go slices make this implicit — append
	// handles growth — but we still pre-size with make to mirror the
	// spec's explicit allocate step and avoid reallocation churn).
	for id, n := range childCount {
		if h, ok := g.nodeOf(id); ok {
			h.ChildIDs = make([]readers.ElementID, 0, n)
		}
	}
	for id, n := range materialCount {
		if m, ok := g.Meshes[id]; ok {
			m.MaterialIDs = make([]readers.ElementID, 0, n)
		}
	}
	for id, n := range layerCount {
		if s, ok := g.AnimStacks[id]; ok {
			s.LayerIDs = make([]readers.ElementID, 0, n)
		}
	}
	for id, n := range propCount {
		if l, ok := g.AnimLayers[id]; ok {
			l.PropIDs = make([]readers.ElementID, 0, n)
		}
	}
	for id, n := range clusterCount {
		if d, ok := g.Deformers[id]; ok {
			d.ClusterIDs = make([]readers.ElementID, 0, n)
		}
	}

	// Pass 2: fill.
	for _, c := range g.Connections {
		switch {
		case isAttribute(g, c.ChildID):
			mergeAttribute(g, c.ParentID, c.ChildID)
		case isMaterial(g, c.ChildID):
			if m, ok := g.Meshes[c.ParentID]; ok {
				m.MaterialIDs = append(m.MaterialIDs, c.ChildID)
			}
		case isAnimLayer(g, c.ChildID):
			if s, ok := g.AnimStacks[c.ParentID]; ok {
				s.LayerIDs = append(s.LayerIDs, c.ChildID)
			}
		case isAnimProp(g, c.ChildID):
			if l, ok := g.AnimLayers[c.ParentID]; ok {
				l.PropIDs = append(l.PropIDs, c.ChildID)
			} else if _, isNode := g.nodeOf(c.ParentID); isNode {
				// Not a layer-to-prop connection: must be the connection
				// naming the prop's actual animated target.
				if p, ok := g.AnimProps[c.ChildID]; ok {
					p.Target = c.ParentID
					p.HasTarget = true
				}
			}
		case isAnimCurve(g, c.ChildID):
			if p, ok := g.AnimProps[c.ParentID]; ok {
				axis := axisOf(c.Prop)
				p.CurveIDs[axis] = c.ChildID
				p.HasCurve[axis] = true
			}
		case isSkinCluster(g, c.ChildID):
			if d, ok := g.Deformers[c.ParentID]; ok {
				d.ClusterIDs = append(d.ClusterIDs, c.ChildID)
			}
		case isSkinDeformer(g, c.ChildID):
			mergeSkinDeformer(g, c.ParentID, c.ChildID)
		case isSkinCluster(g, c.ParentID):
			// A Cluster-to-Bone connection names the bound bone as
			// "child" of the cluster; that is a binding reference, not a
			// scene-hierarchy edge, so it must not set the bone's
			// NodeHeader.ParentID.
			if cl, ok := g.Clusters[c.ParentID]; ok {
				if _, isNode := g.nodeOf(c.ChildID); isNode {
					cl.BoneID = c.ChildID
					cl.HasBone = true
				}
			}
		default:
			if h, ok := g.nodeOf(c.ChildID); ok {
				if p, ok := g.nodeOf(c.ParentID); ok {
					p.ChildIDs = append(p.ChildIDs, c.ChildID)
				}
				h.ParentID = c.ParentID
				h.HasParent = true
			}
		}
	}

	// Deformer->mesh cluster attachment: a SkinDeformer connects to a
	// Mesh via an ordinary connection (the isSkinDeformer case above
	// merges the deformer's cluster ids directly onto the mesh);
	// clusters without a bound bone are dropped per spec.md §4.11 ("copied
	// one-by-one only if the cluster has a bound bone").
	for _, m := range g.Meshes {
		filtered := m.SkinIDs[:0]
		for _, cid := range m.SkinIDs {
			if cl, ok := g.Clusters[cid]; ok && cl.HasBone {
				filtered = append(filtered, cid)
			}
		}
		m.SkinIDs = filtered
	}

	sortAnimLayerProps(g)
}

func mergeSkinDeformer(g *Graph, meshID, deformerID readers.ElementID) {
	d, ok := g.Deformers[deformerID]
	if !ok {
		return
	}
	m, ok := g.Meshes[meshID]
	if !ok {
		return
	}
	m.SkinIDs = append(m.SkinIDs, d.ClusterIDs...)
}

// mergeAttribute proxies an Attribute's props onto its owning node by
// chaining the node's Props.Defaults to the attribute's Props, so a
// property lookup on the node falls through to the attribute's value
// when the node itself doesn't override it.
func mergeAttribute(g *Graph, ownerID, attrID readers.ElementID) {
	attr, ok := g.Attributes[attrID]
	if !ok {
		return
	}
	h, ok := g.nodeOf(ownerID)
	if !ok {
		return
	}
	if attr.Kind == "Light" {
		if l, ok := g.Lights[ownerID]; ok {
			readers.FillLight(l, attr)
			return
		}
	}
	if attr.Props == nil || h.Props == nil {
		return
	}
	h.Props.Defaults = attr.Props
}

func axisOf(prop string) int {
	switch prop {
	case "d|X", "X":
		return 0
	case "d|Y", "Y":
		return 1
	case "d|Z", "Z":
		return 2
	}
	return 0
}

func isAttribute(g *Graph, id readers.ElementID) bool { _, ok := g.Attributes[id]; return ok }
func isMaterial(g *Graph, id readers.ElementID) bool  { _, ok := g.Materials[id]; return ok }
func isAnimLayer(g *Graph, id readers.ElementID) bool { _, ok := g.AnimLayers[id]; return ok }
func isAnimProp(g *Graph, id readers.ElementID) bool  { _, ok := g.AnimProps[id]; return ok }
func isAnimCurve(g *Graph, id readers.ElementID) bool { _, ok := g.AnimCurves[id]; return ok }
func isSkinDeformer(g *Graph, id readers.ElementID) bool {
	_, ok := g.Deformers[id]
	return ok
}
func isSkinCluster(g *Graph, id readers.ElementID) bool { _, ok := g.Clusters[id]; return ok }

// InvalidTarget is element id 0.
const InvalidTarget = readers.ElementID(0)

// sortAnimLayerProps sorts each layer's prop list by target id, then by
// property name. No sentinel entry is appended after the sorted props.
func sortAnimLayerProps(g *Graph) {
	for _, l := range g.AnimLayers {
		sort.Slice(l.PropIDs, func(i, j int) bool {
			pi, pj := g.AnimProps[l.PropIDs[i]], g.AnimProps[l.PropIDs[j]]
			if pi == nil || pj == nil {
				return false
			}
			if pi.Target != pj.Target {
				return pi.Target < pj.Target
			}
			return pi.Name < pj.Name
		})
	}
}
