package bridge

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"nova/internal/manifest"
	"nova/internal/permission"
	"nova/internal/storage"
)

type fakeClipboard struct {
	text  string
	reads int
}

func (c *fakeClipboard) Read() (string, error) { c.reads++; return c.text, nil }
func (c *fakeClipboard) Write(t string) error  { c.text = t; return nil }

type fakeSystem struct {
	opened []string
	closed bool
}

func (s *fakeSystem) OpenURL(u string) error          { s.opened = append(s.opened, u); return nil }
func (s *fakeSystem) OpenPath(p string) error         { s.opened = append(s.opened, p); return nil }
func (s *fakeSystem) Notify(title, body string) error { return nil }
func (s *fakeSystem) CloseWindow()                    { s.closed = true }

type countingClient struct {
	calls int
	body  string
}

func (c *countingClient) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	return &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(c.body)),
	}, nil
}

func permsFor(perms manifest.Permissions) *permission.Set {
	return permission.FromManifest(&manifest.Manifest{
		Extension:   manifest.Meta{Name: "ext", Title: "Ext", Version: "1.0.0"},
		Permissions: perms,
	})
}

func TestClipboardGated(t *testing.T) {
	clip := &fakeClipboard{text: "secret"}
	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{}),
		Clipboard:   clip,
		System:      &fakeSystem{},
	})

	_, err := b.ClipboardRead()
	var denied *permission.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("err = %v, want *DeniedError", err)
	}
	if clip.reads != 0 {
		t.Errorf("clipboard touched %d times after denial", clip.reads)
	}

	b = New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{Clipboard: true}),
		Clipboard:   clip,
		System:      &fakeSystem{},
	})
	text, err := b.ClipboardRead()
	if err != nil || text != "secret" {
		t.Fatalf("ClipboardRead = %q, %v", text, err)
	}
}

func TestFetchDeniedDoesNoIO(t *testing.T) {
	client := &countingClient{body: "{}"}
	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{Network: []string{"api.allowed.example"}}),
		Clipboard:   &fakeClipboard{},
		System:      &fakeSystem{},
		Fetcher:     NewFetcherWith(client, 0),
	})

	_, err := b.Fetch(FetchRequest{URL: "https://api.other.example/v1"})
	var denied *permission.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("err = %v, want *DeniedError", err)
	}
	if denied.Domain != "api.other.example" {
		t.Errorf("domain = %q", denied.Domain)
	}
	if client.calls != 0 {
		t.Fatalf("transport called %d times after denial", client.calls)
	}

	resp, err := b.Fetch(FetchRequest{URL: "https://api.allowed.example/v1"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.Status != 200 || client.calls != 1 {
		t.Errorf("status = %d, calls = %d", resp.Status, client.calls)
	}
}

func TestFetchBadURL(t *testing.T) {
	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{Network: []string{"*"}}),
		Clipboard:   &fakeClipboard{},
		System:      &fakeSystem{},
		Fetcher:     NewFetcherWith(&countingClient{}, 0),
	})
	_, err := b.Fetch(FetchRequest{URL: "ftp://files.example/a"})
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
}

func TestSystemGated(t *testing.T) {
	sys := &fakeSystem{}
	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{}),
		Clipboard:   &fakeClipboard{},
		System:      sys,
	})
	if err := b.OpenURL("https://example.com"); err == nil {
		t.Fatal("expected denial")
	}
	if len(sys.opened) != 0 {
		t.Errorf("system touched after denial: %v", sys.opened)
	}

	b = New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{System: true}),
		Clipboard:   &fakeClipboard{},
		System:      sys,
	})
	if err := b.OpenURL("https://example.com"); err != nil {
		t.Fatal(err)
	}
	if len(sys.opened) != 1 {
		t.Errorf("opened = %v", sys.opened)
	}
}

func TestCloseWindowGated(t *testing.T) {
	sys := &fakeSystem{}
	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{}),
		Clipboard:   &fakeClipboard{},
		System:      sys,
	})
	err := b.CloseWindow()
	var denied *permission.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("err = %v, want *DeniedError", err)
	}
	if sys.closed {
		t.Error("window closed after denial")
	}

	b = New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{System: true}),
		Clipboard:   &fakeClipboard{},
		System:      sys,
	})
	if err := b.CloseWindow(); err != nil {
		t.Fatal(err)
	}
	if !sys.closed {
		t.Error("window not closed after grant")
	}
}

func TestPreferences(t *testing.T) {
	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{}),
		Clipboard:   &fakeClipboard{},
		System:      &fakeSystem{},
		Preferences: map[string]string{"api-region": "eu", "page-size": "20"},
	})

	value, ok := b.PreferenceGet("api-region")
	if !ok || value != "eu" {
		t.Fatalf("PreferenceGet = %q, %v", value, ok)
	}
	if _, ok := b.PreferenceGet("missing"); ok {
		t.Error("undeclared preference resolved")
	}

	all := b.Preferences()
	if len(all) != 2 || all["page-size"] != "20" {
		t.Fatalf("Preferences = %+v", all)
	}
	all["page-size"] = "mutated"
	if v, _ := b.PreferenceGet("page-size"); v != "20" {
		t.Error("returned map aliases bridge state")
	}
}

func TestStorageUngated(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "nova.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{}),
		Clipboard:   &fakeClipboard{},
		System:      &fakeSystem{},
		Storage:     store.Namespace("ext"),
	})
	if err := b.StorageSet("k", "v"); err != nil {
		t.Fatalf("StorageSet: %v", err)
	}
	value, ok, err := b.StorageGet("k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("StorageGet = %q, %v, %v", value, ok, err)
	}
}

func TestAuditLogRecordsDenials(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "nova.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	b := New(Options{
		ExtensionID: "ext",
		Permissions: permsFor(manifest.Permissions{}),
		Clipboard:   &fakeClipboard{},
		System:      &fakeSystem{},
		Audit:       store,
	})
	_, _ = b.ClipboardRead()
	// 只验证审计写入不影响调用方 / auditing must not surface errors to the caller
}
