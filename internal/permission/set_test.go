package permission

import (
	"errors"
	"testing"

	"nova/internal/manifest"
)

func newSet(t *testing.T, perms manifest.Permissions) *Set {
	t.Helper()
	m := &manifest.Manifest{
		Extension:   manifest.Meta{Name: "ext", Title: "Ext", Version: "1.0.0"},
		Permissions: perms,
	}
	return FromManifest(m)
}

func TestClipboardDenied(t *testing.T) {
	s := newSet(t, manifest.Permissions{})
	err := s.CheckClipboard()
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("err = %v, want *DeniedError", err)
	}
	if denied.Capability != CapClipboard {
		t.Errorf("capability = %q", denied.Capability)
	}

	s = newSet(t, manifest.Permissions{Clipboard: true})
	if err := s.CheckClipboard(); err != nil {
		t.Fatalf("CheckClipboard: %v", err)
	}
}

func TestStorageAlwaysGranted(t *testing.T) {
	s := newSet(t, manifest.Permissions{})
	if err := s.CheckStorage(); err != nil {
		t.Fatalf("CheckStorage: %v", err)
	}
}

func TestNetworkMatching(t *testing.T) {
	cases := []struct {
		decl  []string
		host  string
		allow bool
	}{
		{[]string{"api.github.com"}, "api.github.com", true},
		{[]string{"api.github.com"}, "github.com", false},
		{[]string{"api.github.com"}, "evil-api.github.com", false},
		{[]string{"*.github.com"}, "api.github.com", true},
		{[]string{"*.github.com"}, "github.com", true},
		{[]string{"*.github.com"}, "api.github.com.evil.net", false},
		{[]string{"*.github.com"}, "notgithub.com", false},
		{[]string{"*"}, "anything.example", true},
		{nil, "api.github.com", false},
		{[]string{"API.GitHub.com"}, "api.github.com", true},
	}
	for _, tc := range cases {
		s := newSet(t, manifest.Permissions{Network: tc.decl})
		err := s.CheckNetwork(tc.host)
		if tc.allow && err != nil {
			t.Errorf("decl %v host %q: unexpected deny: %v", tc.decl, tc.host, err)
		}
		if !tc.allow && err == nil {
			t.Errorf("decl %v host %q: expected deny", tc.decl, tc.host)
		}
	}
}

func TestNetworkDeniedCarriesDomain(t *testing.T) {
	s := newSet(t, manifest.Permissions{})
	err := s.CheckNetwork("api.github.com")
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("err = %v", err)
	}
	if denied.Domain != "api.github.com" {
		t.Errorf("domain = %q", denied.Domain)
	}
}

func TestSnapshotImmutable(t *testing.T) {
	m := &manifest.Manifest{
		Extension:   manifest.Meta{Name: "ext", Title: "Ext", Version: "1.0.0"},
		Permissions: manifest.Permissions{Network: []string{"api.github.com"}},
	}
	s := FromManifest(m)
	m.Permissions.Network[0] = "evil.example"
	m.Permissions.Clipboard = true
	if err := s.CheckNetwork("api.github.com"); err != nil {
		t.Fatalf("snapshot changed after manifest edit: %v", err)
	}
	if err := s.CheckClipboard(); err == nil {
		t.Fatal("snapshot gained clipboard after manifest edit")
	}
}

func TestHostSet(t *testing.T) {
	s := Host()
	if err := s.CheckClipboard(); err != nil {
		t.Fatal(err)
	}
	if err := s.CheckNetwork("anything.example"); err != nil {
		t.Fatal(err)
	}
}
