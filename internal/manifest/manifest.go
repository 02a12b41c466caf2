package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

// FileName 是每个扩展目录下的描述文件名。
// FileName is the descriptor file expected in every extension directory.
const FileName = "nova.toml"

// HostVersion is the runtime version advertised to extensions declaring a
// minimum nova_version constraint.
const HostVersion = "0.4.0"

// Error reports a descriptor that failed to parse or validate. An extension
// with an invalid manifest never reaches the runtime.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "invalid manifest: " + e.Message
	}
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Message)
}

// Manifest is the parsed extension descriptor.
type Manifest struct {
	Extension   Meta         `toml:"extension"`
	Permissions Permissions  `toml:"permissions"`
	Background  *Background  `toml:"background"`
	Commands    []Command    `toml:"commands"`
	Preferences []Preference `toml:"preferences"`
}

// Meta is the extension identity block.
type Meta struct {
	Name        string   `toml:"name"`
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Version     string   `toml:"version"`
	Author      string   `toml:"author"`
	Repo        string   `toml:"repo"`
	Homepage    string   `toml:"homepage"`
	License     string   `toml:"license"`
	Icon        string   `toml:"icon"`
	Keywords    []string `toml:"keywords"`
	NovaVersion string   `toml:"nova_version"`
}

// Permissions is the declared permission block. Network entries are hostnames
// (optionally "*.domain" wildcards), never URLs. Filesystem is parsed but
// reserved: no bridge operation consults it yet.
type Permissions struct {
	Network    []string `toml:"network"`
	Clipboard  bool     `toml:"clipboard"`
	Storage    bool     `toml:"storage"`
	System     bool     `toml:"system"`
	Background bool     `toml:"background"`
	Filesystem []string `toml:"filesystem"`
}

// Background configures periodic background execution.
type Background struct {
	Interval  int  `toml:"interval"`
	RunOnLoad bool `toml:"run_on_load"`
}

// Mode is the UI mode a command renders in.
type Mode string

const (
	ModeList   Mode = "list"
	ModeDetail Mode = "detail"
	ModeForm   Mode = "form"
)

// Command is one searchable entry point of an extension.
type Command struct {
	Name            string     `toml:"name"`
	Title           string     `toml:"title"`
	Description     string     `toml:"description"`
	Mode            Mode       `toml:"mode"`
	Keywords        []string   `toml:"keywords"`
	AcceptsFreeText bool       `toml:"accepts_free_text"`
	Arguments       []Argument `toml:"arguments"`
}

// Argument describes a deep-link argument a command accepts.
type Argument struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Required bool   `toml:"required"`
}

// PreferenceType enumerates the user preference kinds.
type PreferenceType string

const (
	PrefText     PreferenceType = "text"
	PrefPassword PreferenceType = "password"
	PrefCheckbox PreferenceType = "checkbox"
	PrefDropdown PreferenceType = "dropdown"
)

// Preference is a user-configurable setting declared by the extension.
type Preference struct {
	Name        string             `toml:"name"`
	Title       string             `toml:"title"`
	Description string             `toml:"description"`
	Type        PreferenceType     `toml:"type"`
	Required    bool               `toml:"required"`
	Default     string             `toml:"default"`
	Options     []PreferenceOption `toml:"options"`
}

// PreferenceOption is one entry of a dropdown preference.
type PreferenceOption struct {
	Value string `toml:"value"`
	Title string `toml:"title"`
}

// hostnameRe matches a bare hostname label sequence (no scheme, path or port).
var hostnameRe = regexp.MustCompile(`^(\*\.)?([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// nameRe constrains extension and command names to lowercase slug form.
var nameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Load 从扩展目录读取并校验 nova.toml，任何错误都让整个扩展加载失败。
// Load reads and validates nova.toml from an extension directory. Any error
// fails the whole extension rather than degrading partially.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Path: path, Message: "manifest not found"}
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a manifest document. path is used only for
// error reporting.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, &Error{Path: path, Message: err.Error()}
	}
	if err := m.Validate(); err != nil {
		var merr *Error
		if errors.As(err, &merr) && merr.Path == "" {
			merr.Path = path
		}
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields and structural constraints.
func (m *Manifest) Validate() error {
	if m.Extension.Name == "" {
		return &Error{Message: "extension.name is required"}
	}
	if !nameRe.MatchString(m.Extension.Name) {
		return &Error{Message: fmt.Sprintf("extension.name %q must be a lowercase slug", m.Extension.Name)}
	}
	if m.Extension.Title == "" {
		return &Error{Message: "extension.title is required"}
	}
	if m.Extension.Version == "" {
		return &Error{Message: "extension.version is required"}
	}
	if _, err := semver.NewVersion(m.Extension.Version); err != nil {
		return &Error{Message: fmt.Sprintf("extension.version %q is not a semantic version", m.Extension.Version)}
	}
	if m.Extension.NovaVersion != "" {
		constraint, err := semver.NewConstraint(">= " + m.Extension.NovaVersion)
		if err != nil {
			return &Error{Message: fmt.Sprintf("extension.nova_version %q is not a version", m.Extension.NovaVersion)}
		}
		if !constraint.Check(semver.MustParse(HostVersion)) {
			return &Error{Message: fmt.Sprintf("extension requires nova >= %s (host is %s)", m.Extension.NovaVersion, HostVersion)}
		}
	}

	seen := make(map[string]bool, len(m.Commands))
	for _, cmd := range m.Commands {
		if cmd.Name == "" {
			return &Error{Message: "command.name is required"}
		}
		if !nameRe.MatchString(cmd.Name) {
			return &Error{Message: fmt.Sprintf("command name %q must be a lowercase slug", cmd.Name)}
		}
		if cmd.Title == "" {
			return &Error{Message: fmt.Sprintf("command %q requires a title", cmd.Name)}
		}
		if seen[cmd.Name] {
			return &Error{Message: fmt.Sprintf("duplicate command name %q", cmd.Name)}
		}
		seen[cmd.Name] = true
		switch cmd.Mode {
		case "", ModeList, ModeDetail, ModeForm:
		default:
			return &Error{Message: fmt.Sprintf("command %q has unknown mode %q", cmd.Name, cmd.Mode)}
		}
	}

	for _, domain := range m.Permissions.Network {
		if domain == "*" {
			continue
		}
		if !hostnameRe.MatchString(domain) {
			return &Error{Message: fmt.Sprintf("permissions.network entry %q is not a hostname", domain)}
		}
	}

	for _, pref := range m.Preferences {
		if pref.Name == "" {
			return &Error{Message: "preference.name is required"}
		}
		switch pref.Type {
		case PrefText, PrefPassword, PrefCheckbox, PrefDropdown:
		default:
			return &Error{Message: fmt.Sprintf("preference %q has unknown type %q", pref.Name, pref.Type)}
		}
		if pref.Type == PrefDropdown && len(pref.Options) == 0 {
			return &Error{Message: fmt.Sprintf("dropdown preference %q declares no options", pref.Name)}
		}
	}

	if m.Background != nil && m.Background.Interval < 60 {
		return &Error{Message: "background.interval must be at least 60 seconds"}
	}
	return nil
}

// CommandByName returns the named command declaration.
func (m *Manifest) CommandByName(name string) (Command, bool) {
	for _, cmd := range m.Commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}

// ModeOf normalizes a command's mode, defaulting to list.
func (c Command) ModeOf() Mode {
	if c.Mode == "" {
		return ModeList
	}
	return c.Mode
}
