package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"nova/internal/component"
	"nova/internal/manifest"
	"nova/internal/runtime"
)

// Extension pairs a manifest with the render functions of its commands.
// Manifest-only extensions (discovered on disk without code) get an info
// page per command instead.
type Extension struct {
	Manifest *manifest.Manifest
	Commands map[string]runtime.RenderFunc
}

// Render resolves the render function for a command, falling back to the
// manifest info page.
func (e *Extension) Render(command string) (runtime.RenderFunc, error) {
	if fn, ok := e.Commands[command]; ok {
		return fn, nil
	}
	cmd, ok := e.Manifest.CommandByName(command)
	if !ok {
		return nil, fmt.Errorf("extension %s: unknown command %q", e.Manifest.Extension.Name, command)
	}
	return manifestInfoPage(e.Manifest, cmd), nil
}

func manifestInfoPage(m *manifest.Manifest, cmd manifest.Command) runtime.RenderFunc {
	return func(ctx *runtime.Context) component.Component {
		return &component.Detail{
			Markdown: fmt.Sprintf("# %s\n\n%s\n\nCommand `%s` has no runtime attached.",
				m.Extension.Title, m.Extension.Description, cmd.Name),
			Metadata: &component.Metadata{Children: []component.MetadataItem{
				{Title: "Extension", Text: m.Extension.Name},
				{Title: "Version", Text: m.Extension.Version},
				{Title: "Author", Text: m.Extension.Author},
			}},
		}
	}
}

// ScanExtensions 扫描扩展目录;清单有问题的目录打印警告后跳过,不影响其它扩展。
// ScanExtensions walks the extensions directory. A directory with a broken
// manifest is warned about on stderr and skipped; the rest still load.
func ScanExtensions(dir string) []*Extension {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: read extensions dir %s: %v\n", dir, err)
		}
		return nil
	}

	var exts []*Extension
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m, err := manifest.Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping extension %s: %v\n", entry.Name(), err)
			continue
		}
		exts = append(exts, &Extension{Manifest: m})
	}
	sort.Slice(exts, func(i, j int) bool {
		return exts[i].Manifest.Extension.Name < exts[j].Manifest.Extension.Name
	})
	return exts
}
