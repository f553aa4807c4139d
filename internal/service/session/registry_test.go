package session

import "testing"

func TestActivationRegistryTryActivate(t *testing.T) {
	r := NewActivationRegistry()

	if !r.TryActivate("a") {
		t.Fatal("expected first activation to succeed")
	}
	if r.TryActivate("b") {
		t.Error("expected second activation to be rejected")
	}

	id, ok := r.ActiveID()
	if !ok || id != "a" {
		t.Errorf("ActiveID() = %q, %v, want %q, true", id, ok, "a")
	}
}

func TestActivationRegistryRelease(t *testing.T) {
	r := NewActivationRegistry()
	r.TryActivate("a")

	if r.Release("b") {
		t.Error("releasing a non-holder should report false")
	}
	if _, ok := r.ActiveID(); !ok {
		t.Fatal("non-holder release must not clear the active session")
	}

	if !r.Release("a") {
		t.Error("expected holder release to succeed")
	}
	if !r.TryActivate("b") {
		t.Error("expected activation to succeed after release")
	}
}

func TestActivationRegistryReleaseIsIdempotent(t *testing.T) {
	r := NewActivationRegistry()
	r.TryActivate("a")

	r.Release("a")
	if r.Release("a") {
		t.Error("second release of the same session should report false")
	}
	if _, ok := r.ActiveID(); ok {
		t.Error("registry should stay free after repeated release")
	}
}
