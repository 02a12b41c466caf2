package host

import (
	"testing"

	"nova/internal/demo"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	core := newTestCore(t)

	h := r.Register(core)
	if h == 0 {
		t.Fatal("zero handle")
	}
	if got := r.Get(h); got != core {
		t.Fatalf("Get = %p, want %p", got, core)
	}

	if freed := r.Free(h); freed != core {
		t.Fatal("Free did not return the core")
	}
	if r.Get(h) != nil {
		t.Fatal("freed handle still resolves")
	}
	if r.Free(h) != nil {
		t.Fatal("double free returned a core")
	}
}

func TestStaleHandleNeverAliases(t *testing.T) {
	r := NewRegistry()
	first := newTestCore(t)
	h := r.Register(first)
	r.Free(h)

	second, err := NewCore(testConfig(t), WithExtension(&Extension{
		Manifest: demo.Manifest(),
		Commands: demo.Commands(),
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	// the slot is reused but the generation moved on
	h2 := r.Register(second)
	if h2 == h {
		t.Fatal("handle reused verbatim")
	}
	if r.Get(h) != nil {
		t.Fatal("stale handle resolves to the new core")
	}
	if r.Get(h2) != second {
		t.Fatal("fresh handle broken")
	}
}

func TestInvalidHandle(t *testing.T) {
	r := NewRegistry()
	if r.Get(0) != nil {
		t.Error("zero handle resolved")
	}
	if r.Get(Handle(1<<32|7)) != nil {
		t.Error("out of range handle resolved")
	}
}
