// Command fbx2gltf converts an FBX scene's meshes into a single glTF
// 2.0 document, one glTF node+mesh per ufbx.Node that carries geometry.
// Faces are fan-triangulated and only vertex positions are written;
// materials, skinning, and the node hierarchy are not exported.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/ufbxgo/ufbx"
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: fbx2gltf in.fbx out.gltf")
		os.Exit(2)
	}

	scene, err := ufbx.LoadFile(flag.Arg(0), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fbx2gltf:", err)
		os.Exit(1)
	}

	doc, err := convert(scene)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fbx2gltf:", err)
		os.Exit(1)
	}

	if err := gltf.Save(doc, flag.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, "fbx2gltf:", err)
		os.Exit(1)
	}
}

func convert(scene *ufbx.Scene) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	var sceneNodeIndices []uint32

	for i := range scene.Nodes {
		n := &scene.Nodes[i]
		if n.Mesh == nil {
			continue
		}

		positions := make([][3]float32, 0, len(n.Mesh.Vertices)/3)
		for v := 0; v+2 < len(n.Mesh.Vertices); v += 3 {
			positions = append(positions, [3]float32{
				float32(n.Mesh.Vertices[v]),
				float32(n.Mesh.Vertices[v+1]),
				float32(n.Mesh.Vertices[v+2]),
			})
		}
		posAccessor := modeler.WritePosition(doc, positions)

		var indices []uint32
		for _, f := range n.Mesh.Faces {
			tri := n.Mesh.Triangulate(nil, f)
			for _, idx := range tri {
				indices = append(indices, uint32(idx))
			}
		}
		indexAccessor := modeler.WriteIndices(doc, indices)

		meshIndex := uint32(len(doc.Meshes))
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: n.Name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(indexAccessor),
				Attributes: map[string]uint32{
					gltf.POSITION: posAccessor,
				},
			}},
		})

		nodeIndex := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: n.Name,
			Mesh: gltf.Index(meshIndex),
		})
		sceneNodeIndices = append(sceneNodeIndices, nodeIndex)
	}

	doc.Scenes = append(doc.Scenes, &gltf.Scene{Nodes: sceneNodeIndices})
	doc.Scene = gltf.Index(0)

	return doc, nil
}
