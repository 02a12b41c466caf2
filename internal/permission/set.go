package permission

import (
	"fmt"
	"strings"

	"nova/internal/manifest"
)

// Capability names a gated host capability.
type Capability string

const (
	CapClipboard Capability = "clipboard"
	CapNetwork   Capability = "network"
	CapStorage   Capability = "storage"
	CapSystem    Capability = "system"
)

// DeniedError is returned when an extension invokes a capability its manifest
// never declared. Domain is set for network denials.
type DeniedError struct {
	Extension  string
	Capability Capability
	Domain     string
}

func (e *DeniedError) Error() string {
	if e.Capability == CapNetwork && e.Domain != "" {
		return fmt.Sprintf("extension %s: network access to %q not declared in manifest", e.Extension, e.Domain)
	}
	return fmt.Sprintf("extension %s: %s permission not declared in manifest", e.Extension, e.Capability)
}

// Set 是扩展加载时拍下的权限快照，之后不可变。
// Set is the permission snapshot taken when an extension loads. It is
// immutable afterwards: editing nova.toml has no effect until reload.
type Set struct {
	extension string
	clipboard bool
	system    bool
	network   []string
}

// FromManifest snapshots the declared permissions of a manifest.
func FromManifest(m *manifest.Manifest) *Set {
	network := make([]string, len(m.Permissions.Network))
	copy(network, m.Permissions.Network)
	return &Set{
		extension: m.Extension.Name,
		clipboard: m.Permissions.Clipboard,
		system:    m.Permissions.System,
		network:   network,
	}
}

// Host returns a fully-open set used for host-internal operations.
func Host() *Set {
	return &Set{extension: "nova", clipboard: true, system: true, network: []string{"*"}}
}

// CheckClipboard reports whether clipboard access is declared.
func (s *Set) CheckClipboard() error {
	if s.clipboard {
		return nil
	}
	return &DeniedError{Extension: s.extension, Capability: CapClipboard}
}

// CheckSystem reports whether system access (open URL, notify) is declared.
func (s *Set) CheckSystem() error {
	if s.system {
		return nil
	}
	return &DeniedError{Extension: s.extension, Capability: CapSystem}
}

// CheckStorage always succeeds: every extension gets its own isolated
// namespace, so storage needs no declaration.
func (s *Set) CheckStorage() error {
	return nil
}

// CheckNetwork reports whether the host may be reached. A declared entry
// matches exactly, "*.domain" matches the domain and any subdomain, and a
// bare "*" matches everything.
func (s *Set) CheckNetwork(host string) error {
	host = strings.ToLower(strings.TrimSpace(host))
	for _, decl := range s.network {
		if domainMatches(strings.ToLower(decl), host) {
			return nil
		}
	}
	return &DeniedError{Extension: s.extension, Capability: CapNetwork, Domain: host}
}

func domainMatches(decl, host string) bool {
	if decl == "*" {
		return true
	}
	if suffix, ok := strings.CutPrefix(decl, "*."); ok {
		return host == suffix || strings.HasSuffix(host, "."+suffix)
	}
	return host == decl
}

// Summary 返回权限概览，供宿主 UI 展示。
// Summary describes the snapshot for host UI display.
func (s *Set) Summary() string {
	parts := []string{
		"clipboard: " + onOff(s.clipboard),
		"system: " + onOff(s.system),
		"storage: on",
	}
	if len(s.network) == 0 {
		parts = append(parts, "network: none")
	} else {
		parts = append(parts, "network: "+strings.Join(s.network, " "))
	}
	return strings.Join(parts, ", ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
