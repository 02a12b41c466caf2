// Package bridge 是扩展可见的宿主 API 面,每个调用先过权限快照再做 I/O。
// Package bridge is the host API surface visible to extensions. Every call
// checks the permission snapshot before performing any I/O.
package bridge

import (
	"fmt"

	"nova/internal/permission"
	"nova/internal/storage"
)

// Bridge bundles the gated capabilities handed to one extension session.
type Bridge struct {
	extensionID string

	perms     *permission.Set
	clipboard Clipboard
	system    System
	fetcher   *Fetcher
	storage   *storage.Namespace
	audit     AuditLog
	prefs     map[string]string
}

// AuditLog receives one record per capability check. Usually the sqlite
// permission log; nil disables auditing.
type AuditLog interface {
	LogPermission(entry storage.PermissionEntry) error
}

// Options configures a Bridge. Zero-value fields fall back to the real
// system implementations.
type Options struct {
	ExtensionID string
	Permissions *permission.Set
	Clipboard   Clipboard
	System      System
	Fetcher     *Fetcher
	Storage     *storage.Namespace
	Audit       AuditLog
	Preferences map[string]string
}

func New(opts Options) *Bridge {
	b := &Bridge{
		perms:     opts.Permissions,
		clipboard: opts.Clipboard,
		system:    opts.System,
		fetcher:   opts.Fetcher,
		storage:   opts.Storage,
		audit:     opts.Audit,
		prefs:     opts.Preferences,
	}
	if b.perms == nil {
		b.perms = permission.Host()
	}
	if b.clipboard == nil {
		b.clipboard = SystemClipboard{}
	}
	if b.system == nil {
		b.system = DesktopSystem{}
	}
	if b.fetcher == nil {
		b.fetcher = NewFetcher(0, 0)
	}
	b.extensionID = opts.ExtensionID
	return b
}

func (b *Bridge) logCheck(capability permission.Capability, detail string, err error) {
	if b.audit == nil {
		return
	}
	_ = b.audit.LogPermission(storage.PermissionEntry{
		ExtensionID: b.extensionID,
		Capability:  string(capability),
		Detail:      detail,
		Granted:     err == nil,
	})
}

// ClipboardRead returns the current clipboard text.
func (b *Bridge) ClipboardRead() (string, error) {
	err := b.perms.CheckClipboard()
	b.logCheck(permission.CapClipboard, "read", err)
	if err != nil {
		return "", err
	}
	return b.clipboard.Read()
}

// ClipboardWrite replaces the clipboard text.
func (b *Bridge) ClipboardWrite(text string) error {
	err := b.perms.CheckClipboard()
	b.logCheck(permission.CapClipboard, "write", err)
	if err != nil {
		return err
	}
	return b.clipboard.Write(text)
}

// OpenURL opens a URL in the default browser.
func (b *Bridge) OpenURL(rawURL string) error {
	err := b.perms.CheckSystem()
	b.logCheck(permission.CapSystem, "open_url", err)
	if err != nil {
		return err
	}
	return b.system.OpenURL(rawURL)
}

// OpenPath reveals a file or directory in the system file manager.
func (b *Bridge) OpenPath(path string) error {
	err := b.perms.CheckSystem()
	b.logCheck(permission.CapSystem, "open_path", err)
	if err != nil {
		return err
	}
	return b.system.OpenPath(path)
}

// Notify shows a desktop notification.
func (b *Bridge) Notify(title, body string) error {
	err := b.perms.CheckSystem()
	b.logCheck(permission.CapSystem, "notify", err)
	if err != nil {
		return err
	}
	return b.system.Notify(title, body)
}

// Fetch performs an HTTP request after the host of the URL passes the
// network declaration. Nothing touches the wire on denial.
func (b *Bridge) Fetch(req FetchRequest) (*FetchResponse, error) {
	host, err := req.host()
	if err != nil {
		return nil, err
	}
	permErr := b.perms.CheckNetwork(host)
	b.logCheck(permission.CapNetwork, host, permErr)
	if permErr != nil {
		return nil, permErr
	}
	return b.fetcher.Do(req)
}

// StorageGet reads a value from the extension's namespace.
func (b *Bridge) StorageGet(key string) (string, bool, error) {
	if err := b.perms.CheckStorage(); err != nil {
		return "", false, err
	}
	if b.storage == nil {
		return "", false, fmt.Errorf("storage not configured")
	}
	return b.storage.Get(key)
}

// StorageSet writes a value into the extension's namespace.
func (b *Bridge) StorageSet(key, value string) error {
	if err := b.perms.CheckStorage(); err != nil {
		return err
	}
	if b.storage == nil {
		return fmt.Errorf("storage not configured")
	}
	return b.storage.Set(key, value)
}

// StorageRemove deletes a key from the extension's namespace.
func (b *Bridge) StorageRemove(key string) error {
	if err := b.perms.CheckStorage(); err != nil {
		return err
	}
	if b.storage == nil {
		return fmt.Errorf("storage not configured")
	}
	return b.storage.Remove(key)
}

// StorageKeys lists the extension's keys.
func (b *Bridge) StorageKeys() ([]string, error) {
	if err := b.perms.CheckStorage(); err != nil {
		return nil, err
	}
	if b.storage == nil {
		return nil, fmt.Errorf("storage not configured")
	}
	return b.storage.Keys()
}

// PreferenceGet returns the resolved value of one declared preference.
// Values are read-only to the extension; the host seeds them from the
// manifest defaults and its own overrides at session start.
func (b *Bridge) PreferenceGet(name string) (string, bool) {
	value, ok := b.prefs[name]
	return value, ok
}

// Preferences returns a copy of all resolved preference values.
func (b *Bridge) Preferences() map[string]string {
	out := make(map[string]string, len(b.prefs))
	for name, value := range b.prefs {
		out[name] = value
	}
	return out
}

// CloseWindow asks the host window to close. System-gated like the other
// window-level operations.
func (b *Bridge) CloseWindow() error {
	err := b.perms.CheckSystem()
	b.logCheck(permission.CapSystem, "close_window", err)
	if err != nil {
		return err
	}
	b.system.CloseWindow()
	return nil
}
