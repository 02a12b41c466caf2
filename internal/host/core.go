// Package host wires the pieces together: extension discovery, command
// search, session lifecycle and the handle registry the FFI layer sits on.
package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"nova/internal/bridge"
	"nova/internal/clipboard"
	"nova/internal/config"
	"nova/internal/manifest"
	"nova/internal/permission"
	"nova/internal/runtime"
	"nova/internal/search"
	"nova/internal/storage"
	"nova/internal/theme"
)

// ErrIndexOutOfRange reports an execute index past the current result or
// action list. The FFI layer maps it to a null return.
var ErrIndexOutOfRange = errors.New("index out of range")

// Core 是嵌入方看到的唯一对象:一次搜索、执行、剪贴板轮询的入口。
// Core is the single object an embedder holds. All launcher operations go
// through it, serialized on one mutex.
type Core struct {
	mu sync.Mutex

	cfg        config.Config
	store      *storage.Store
	history    *clipboard.History
	theme      theme.Theme
	extensions []*Extension

	session     *runtime.Session
	lastResults []search.CommandHit
}

// Option customizes a Core at construction time.
type Option func(*Core)

// WithExtension registers a built-in extension ahead of the disk scan.
func WithExtension(ext *Extension) Option {
	return func(c *Core) {
		c.extensions = append(c.extensions, ext)
	}
}

// NewCore builds a Core from config: opens the database, loads the theme
// and scans the extensions directory.
func NewCore(cfg config.Config, opts ...Option) (*Core, error) {
	store, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	c := &Core{
		cfg:     cfg,
		store:   store,
		history: clipboard.NewHistory(cfg.Clipboard.HistorySize, store),
		theme:   theme.Load(cfg.UI.Theme),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.extensions = append(c.extensions, ScanExtensions(cfg.ExtensionsDir)...)
	return c, nil
}

// Close releases the database. Any active session is destroyed first.
func (c *Core) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	return c.store.Close()
}

// Theme returns the loaded UI theme.
func (c *Core) Theme() theme.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// MaxItems 是界面一次展示的结果上限,来自配置。
func (c *Core) MaxItems() int {
	return c.cfg.UI.MaxItems
}

// Extensions returns the loaded extensions in name order.
func (c *Core) Extensions() []*Extension {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Extension, len(c.extensions))
	copy(out, c.extensions)
	return out
}

// Reload drops the active session and rescans the extensions directory.
// Built-in extensions survive the rescan.
func (c *Core) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeSessionLocked()
	var builtins []*Extension
	for _, ext := range c.extensions {
		if len(ext.Commands) > 0 {
			builtins = append(builtins, ext)
		}
	}
	c.extensions = append(builtins, ScanExtensions(c.cfg.ExtensionsDir)...)
	c.lastResults = nil
}

// Search ranks commands against query, caches the hits for Execute, and
// returns the wire envelope. maxResults <= 0 means unbounded. A live session
// is left untouched.
func (c *Core) Search(query string, maxResults int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entries []search.Entry
	for _, ext := range c.extensions {
		meta := ext.Manifest.Extension
		for _, cmd := range ext.Manifest.Commands {
			entries = append(entries, search.Entry{
				ExtensionID:    meta.Name,
				ExtensionTitle: meta.Title,
				Command:        cmd.Name,
				Title:          cmd.Title,
				Description:    cmd.Description,
				Mode:           string(cmd.ModeOf()),
				Keywords:       cmd.Keywords,
			})
		}
	}
	hits := search.Commands(entries, query)
	if maxResults > 0 && len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	c.lastResults = hits
	return search.Encode(hits)
}

// ResultCount reports how many hits the last Search produced.
func (c *Core) ResultCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lastResults)
}

// Execute runs the entry at index. With a live session the index addresses
// the flat action list of the latest render; otherwise it addresses the last
// search results and launches that command. input optionally carries form
// values or free text.
func (c *Core) Execute(index int, input json.RawMessage) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result runtime.Result
	if c.session != nil {
		actions := c.session.Actions()
		if index < 0 || index >= len(actions) {
			return nil, fmt.Errorf("action index %d of %d: %w", index, len(actions), ErrIndexOutOfRange)
		}
		result = c.session.Dispatch(actions[index].Token, input)
	} else {
		if index < 0 || index >= len(c.lastResults) {
			return nil, fmt.Errorf("result index %d of %d: %w", index, len(c.lastResults), ErrIndexOutOfRange)
		}
		result = c.launchLocked(index)
	}

	if c.session != nil && c.session.CloseRequested() {
		c.closeSessionLocked()
	}
	if result.Kind == runtime.ResultQuit {
		c.closeSessionLocked()
	}
	return json.Marshal(result)
}

// DispatchToken runs the handler bound to a callback token from the latest
// render. The embedding UI reads tokens like onSubmit and onSearchChange out
// of the serialized tree and hands them back here.
func (c *Core) DispatchToken(token string, input json.RawMessage) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result runtime.Result
	if c.session == nil {
		result = runtime.Errorf("no active session")
	} else {
		result = c.session.Dispatch(token, input)
	}
	if c.session != nil && c.session.CloseRequested() {
		c.closeSessionLocked()
	}
	if result.Kind == runtime.ResultQuit {
		c.closeSessionLocked()
	}
	return json.Marshal(result)
}

// launchLocked opens a session for the search hit at index.
func (c *Core) launchLocked(index int) runtime.Result {
	hit := c.lastResults[index]
	ext := c.extensionByName(hit.ExtensionID)
	if ext == nil {
		return runtime.Errorf("extension %q not loaded", hit.ExtensionID)
	}
	render, err := ext.Render(hit.Command)
	if err != nil {
		return runtime.Errorf("%v", err)
	}

	b := bridge.New(bridge.Options{
		ExtensionID: hit.ExtensionID,
		Permissions: permission.FromManifest(ext.Manifest),
		Fetcher: bridge.NewFetcher(
			time.Duration(c.cfg.Fetch.TimeoutMS)*time.Millisecond,
			c.cfg.Fetch.MaxBodyBytes,
		),
		Storage:     c.store.Namespace(hit.ExtensionID),
		Audit:       c.store,
		Preferences: resolvePreferences(ext.Manifest, c.cfg.Preferences[hit.ExtensionID]),
	})
	s, err := runtime.NewSession(hit.ExtensionID, hit.Command, b, render)
	if err != nil {
		return runtime.Errorf("start %s/%s: %v", hit.ExtensionID, hit.Command, err)
	}
	c.session = s
	return runtime.Success()
}

// resolvePreferences seeds preference values from the manifest defaults and
// applies host-config overrides. Only declared preferences resolve; unknown
// override keys are dropped.
func resolvePreferences(m *manifest.Manifest, overrides map[string]string) map[string]string {
	prefs := make(map[string]string, len(m.Preferences))
	for _, p := range m.Preferences {
		prefs[p.Name] = p.Default
	}
	for name, value := range overrides {
		if _, ok := prefs[name]; ok {
			prefs[name] = value
		}
	}
	return prefs
}

func (c *Core) extensionByName(name string) *Extension {
	for _, ext := range c.extensions {
		if ext.Manifest.Extension.Name == name {
			return ext
		}
	}
	return nil
}

func (c *Core) closeSessionLocked() {
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
}

// CloseSession ends the active session, if any.
func (c *Core) CloseSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeSessionLocked()
}

// SessionTree returns the latest rendered tree of the active session, or nil
// when no session is live.
func (c *Core) SessionTree() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Tree()
}

// SessionActions returns the flat action list of the active session.
func (c *Core) SessionActions() []ActionInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	actions := c.session.Actions()
	out := make([]ActionInfo, 0, len(actions))
	for i, a := range actions {
		out = append(out, ActionInfo{
			Index:  i,
			ItemID: a.ItemID,
			Title:  a.Title,
			Style:  string(a.Style),
		})
	}
	return out
}

// ActionInfo describes one executable action for the embedding UI.
type ActionInfo struct {
	Index  int    `json:"index"`
	ItemID string `json:"itemId"`
	Title  string `json:"title"`
	Style  string `json:"style,omitempty"`
}

// HasSession reports whether a session is live.
func (c *Core) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// PollClipboard offers clipboard content to the history ring and reports
// whether it was recorded.
func (c *Core) PollClipboard(content string) bool {
	return c.history.Poll(content)
}

// ClipboardHistory returns the newest-first history entries.
func (c *Core) ClipboardHistory() []string {
	return c.history.Entries()
}

// Manifests returns the loaded manifests, for settings surfaces.
func (c *Core) Manifests() []*manifest.Manifest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*manifest.Manifest, 0, len(c.extensions))
	for _, ext := range c.extensions {
		out = append(out, ext.Manifest)
	}
	return out
}
