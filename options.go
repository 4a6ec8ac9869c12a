package ufbx

import "github.com/ufbxgo/ufbx/internal/ulog"

// Options mirrors spec.md §6's "Options (recognized keys)" table: one
// field per recognized key. DefaultOptions() returns every field at its
// documented default; an Options the caller supplies is used as given,
// and its zero fields are not replaced by defaults.
type Options struct {
	IgnoreGeometry  bool
	IgnoreAnimation bool

	MaxTempMemory   int64
	MaxResultMemory int64
	MaxTempAllocs   int64
	MaxResultAllocs int64
	TempHugeSize    int64
	ResultHugeSize  int64

	MaxASCIITokenLength int
	ReadBufferSize      int

	MaxProperties   int
	MaxStringLength int
	MaxStrings      int

	MaxNodeDepth    int
	MaxNodeValues   int
	MaxNodeChildren int
	MaxArraySize    int
	MaxChildDepth   int

	AllowNonexistentIndices bool

	// Logger is carried on Options for callers; Load does not write to
	// it, and a nil Logger is left nil.
	Logger *ulog.Logger
}

// DefaultOptions returns the Go analogue of ufbxi_expand_defaults: the
// limits spec.md §6 documents as each key's default.
func DefaultOptions() *Options {
	return &Options{
		MaxTempMemory:   0, // 0 means unlimited, per spec.md §6
		MaxResultMemory: 0,
		MaxTempAllocs:   0,
		MaxResultAllocs: 0,
		TempHugeSize:    1 << 20,
		ResultHugeSize:  1 << 20,

		MaxASCIITokenLength: 16 * 1024 * 1024,
		ReadBufferSize:      256 * 1024,

		MaxProperties:   1 << 20,
		MaxStringLength: 1 << 20,
		MaxStrings:      1 << 20,

		MaxNodeDepth:    64,
		MaxNodeValues:   1 << 16,
		MaxNodeChildren: 1 << 20,
		MaxArraySize:    1 << 28,
		MaxChildDepth:   1 << 16,

		AllowNonexistentIndices: false,
	}
}

// fillDefaults returns opts if non-nil, else a fresh DefaultOptions();
// any zero-valued numeric field on a caller-supplied Options is left
// as-is, since 0 is itself a meaningful ("unlimited") value for the
// memory/alloc limits per spec.md §6.
func fillDefaults(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	return opts
}
