// Command ufbxinfo loads an FBX file and prints a summary of its scene
// graph: node hierarchy, mesh vertex/face counts, material count, and
// animation stack time ranges.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ufbxgo/ufbx"
	"gopkg.in/yaml.v2"
)

// configFile mirrors the subset of ufbx.Options a user would plausibly
// want to override from the command line without a long flag list;
// unset fields keep DefaultOptions()'s value.
type configFile struct {
	IgnoreGeometry  bool `yaml:"ignore_geometry"`
	IgnoreAnimation bool `yaml:"ignore_animation"`
	MaxNodeDepth    int  `yaml:"max_node_depth"`
}

func main() {
	configPath := flag.String("config", "", "YAML file overriding load options")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ufbxinfo [-config file.yaml] scene.fbx")
		os.Exit(2)
	}

	opts := ufbx.DefaultOptions()
	if *configPath != "" {
		if err := applyConfig(*configPath, opts); err != nil {
			fmt.Fprintln(os.Stderr, "ufbxinfo:", err)
			os.Exit(1)
		}
	}

	scene, err := ufbx.LoadFile(flag.Arg(0), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ufbxinfo:", err)
		os.Exit(1)
	}

	printSummary(scene)
}

func applyConfig(path string, opts *ufbx.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	opts.IgnoreGeometry = cfg.IgnoreGeometry
	opts.IgnoreAnimation = cfg.IgnoreAnimation
	if cfg.MaxNodeDepth > 0 {
		opts.MaxNodeDepth = cfg.MaxNodeDepth
	}
	return nil
}

func printSummary(scene *ufbx.Scene) {
	meta := scene.Metadata
	fmt.Printf("version %d, ascii=%v, creator=%q\n", meta.Version, meta.ASCII, meta.Creator)
	fmt.Printf("%d nodes, %d meshes, %d materials, %d anim stacks\n",
		len(scene.Nodes), len(scene.Meshes), len(scene.Materials), len(scene.AnimStacks))

	for _, n := range scene.Nodes {
		indent := ""
		if n.HasParent {
			indent = "  "
		}
		kind := "node"
		switch {
		case n.Mesh != nil:
			kind = fmt.Sprintf("mesh (%d verts, %d faces)", len(n.Mesh.Vertices)/3, len(n.Mesh.Faces))
		case n.Light != nil:
			kind = "light"
		case n.Bone != nil:
			kind = "bone"
		}
		fmt.Printf("%s%s [%s]\n", indent, n.Name, kind)
	}

	for id, as := range scene.AnimStacks {
		fmt.Printf("anim stack %d %q: %.3f - %.3fs, %d layers\n", id, as.Name, as.TimeBegin, as.TimeEnd, len(as.Layers))
	}
}
