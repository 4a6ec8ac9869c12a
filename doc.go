// Package ufbx reads Autodesk FBX scene files (binary and ASCII, all
// property and object-model versions from the pre-7000 "Takes" era
// through the current connection-based object model) into a typed
// scene graph: nodes with resolved parent/world transforms, meshes
// with per-layer vertex attributes, materials, skinning, and animation
// curves.
//
// Load, LoadFile, and LoadReader are the three entry points; all three
// share the same pipeline: tokenize (internal/binaryfmt or internal/
// asciifmt) into a generic parse tree (internal/ast), stage typed
// records per object kind (internal/readers), wire the staged records
// together via the Connections table (internal/resolve), and flatten
// the result into a Scene (internal/finalize plus this package's
// scene.go).
package ufbx
