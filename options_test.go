package ufbx

import "testing"

func TestDefaultOptionsUnlimitedMemoryByDefault(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxTempMemory != 0 || opts.MaxResultMemory != 0 {
		t.Fatalf("default memory limits = %d/%d, want 0 (unlimited)", opts.MaxTempMemory, opts.MaxResultMemory)
	}
	if opts.MaxNodeDepth <= 0 {
		t.Fatalf("MaxNodeDepth = %d, want positive", opts.MaxNodeDepth)
	}
}

func TestFillDefaultsReturnsSuppliedOptionsUnchanged(t *testing.T) {
	custom := &Options{IgnoreAnimation: true, MaxNodeDepth: 4}
	got := fillDefaults(custom)
	if got != custom {
		t.Fatal("fillDefaults replaced a non-nil Options")
	}
	if got.MaxNodeDepth != 4 {
		t.Fatalf("MaxNodeDepth = %d, want 4 (caller's explicit value preserved)", got.MaxNodeDepth)
	}
}

func TestFillDefaultsFillsNil(t *testing.T) {
	got := fillDefaults(nil)
	if got == nil {
		t.Fatal("fillDefaults(nil) returned nil")
	}
	if got.MaxNodeDepth != DefaultOptions().MaxNodeDepth {
		t.Fatalf("MaxNodeDepth = %d, want default", got.MaxNodeDepth)
	}
}
