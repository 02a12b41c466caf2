// Package tui is the terminal launcher front end. It drives a host.Core the
// same way a native shell would: search, execute by index, read back the
// rendered tree.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nova/internal/bridge"
	"nova/internal/host"
	"nova/internal/runtime"
	"nova/internal/search"
	"nova/internal/theme"
)

// mode 标识当前界面层 / mode identifies the current surface
type mode int

const (
	modeSearch mode = iota
	modeSession
	modeActions
	modeFormInput
)

// clipboardTickMsg drives the clipboard poller.
type clipboardTickMsg time.Time

const clipboardPollInterval = 2 * time.Second

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	core  *host.Core
	theme theme.Theme
	keys  KeyMap

	width  int
	height int

	mode     mode
	input    textinput.Model
	hits     []search.CommandHit
	selected int

	// session state
	sessionSelected int
	actions         []host.ActionInfo
	actionSelected  int

	// form state
	formInput  textinput.Model
	formValues map[string]string
	formFields []string
	formTitles []string
	formField  int
	formSubmit string

	status    string
	lastError string
}

// NewApp 创建启动器 TUI
// NewApp creates the launcher TUI
func NewApp(core *host.Core) App {
	ti := textinput.New()
	ti.Placeholder = "Search commands..."
	ti.Prompt = "⌘ "
	ti.Focus()

	fi := textinput.New()
	fi.Prompt = "> "

	return App{
		core:      core,
		theme:     core.Theme(),
		keys:      DefaultKeyMap(),
		input:     ti,
		formInput: fi,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.searchCmd(""), clipboardTick())
}

func clipboardTick() tea.Cmd {
	return tea.Tick(clipboardPollInterval, func(t time.Time) tea.Msg {
		return clipboardTickMsg(t)
	})
}

// searchResultMsg carries fresh search hits.
type searchResultMsg struct {
	hits []search.CommandHit
	err  error
}

func (a App) searchCmd(query string) tea.Cmd {
	core := a.core
	return func() tea.Msg {
		data, err := core.Search(query, core.MaxItems())
		if err != nil {
			return searchResultMsg{err: err}
		}
		var resp search.Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return searchResultMsg{err: err}
		}
		hits := make([]search.CommandHit, 0, len(resp.Results))
		for _, r := range resp.Results {
			var hit search.CommandHit
			if err := json.Unmarshal(r.Data, &hit); err != nil {
				continue
			}
			hits = append(hits, hit)
		}
		return searchResultMsg{hits: hits}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case clipboardTickMsg:
		if text, err := (bridge.SystemClipboard{}).Read(); err == nil {
			a.core.PollClipboard(text)
		}
		return a, clipboardTick()

	case searchResultMsg:
		if msg.err != nil {
			a.lastError = msg.err.Error()
			return a, nil
		}
		a.hits = msg.hits
		if a.selected >= len(a.hits) {
			a.selected = 0
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		switch a.mode {
		case modeSearch:
			return a.updateSearch(msg)
		case modeSession:
			return a.updateSession(msg)
		case modeActions:
			return a.updateActions(msg)
		case modeFormInput:
			return a.updateFormInput(msg)
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.selected > 0 {
			a.selected--
		}
		return a, nil
	case key.Matches(msg, a.keys.Down):
		if a.selected < len(a.hits)-1 {
			a.selected++
		}
		return a, nil
	case key.Matches(msg, a.keys.Reload):
		a.core.Reload()
		a.status = "extensions reloaded"
		return a, a.searchCmd(a.input.Value())
	case key.Matches(msg, a.keys.Select):
		if a.selected >= len(a.hits) {
			return a, nil
		}
		return a.execute(a.selected, nil)
	case key.Matches(msg, a.keys.Back):
		return a, tea.Quit
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() != before {
		return a, tea.Batch(cmd, a.searchCmd(a.input.Value()))
	}
	return a, cmd
}

func (a App) updateSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.sessionSelected > 0 {
			a.sessionSelected--
		}
		return a, nil
	case key.Matches(msg, a.keys.Down):
		if a.sessionSelected < SelectableCount(a.core.SessionTree())-1 {
			a.sessionSelected++
		}
		return a, nil
	case key.Matches(msg, a.keys.Actions):
		a.actions = a.core.SessionActions()
		if len(a.actions) > 0 {
			a.mode = modeActions
			a.actionSelected = 0
		}
		return a, nil
	case key.Matches(msg, a.keys.Select):
		tree := a.core.SessionTree()
		if isForm(tree) {
			return a.startFormInput(tree)
		}
		// run the selected item's first action
		for _, info := range a.core.SessionActions() {
			if a.itemAt(a.sessionSelected) == info.ItemID {
				return a.execute(info.Index, nil)
			}
		}
		return a, nil
	case key.Matches(msg, a.keys.Back):
		a.core.CloseSession()
		a.mode = modeSearch
		a.status = ""
		return a, a.searchCmd(a.input.Value())
	}
	return a, nil
}

func (a App) updateActions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.actionSelected > 0 {
			a.actionSelected--
		}
		return a, nil
	case key.Matches(msg, a.keys.Down):
		if a.actionSelected < len(a.actions)-1 {
			a.actionSelected++
		}
		return a, nil
	case key.Matches(msg, a.keys.Select):
		a.mode = modeSession
		return a.execute(a.actions[a.actionSelected].Index, nil)
	case key.Matches(msg, a.keys.Back):
		a.mode = modeSession
		return a, nil
	}
	return a, nil
}

// startFormInput walks the form fields one by one through a single text
// input; submit fires after the last field.
func (a App) startFormInput(tree []byte) (tea.Model, tea.Cmd) {
	var probe struct {
		OnSubmit string `json:"onSubmit"`
		Children []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"children"`
	}
	if err := json.Unmarshal(tree, &probe); err != nil || len(probe.Children) == 0 {
		return a, nil
	}
	a.formValues = make(map[string]string, len(probe.Children))
	a.formFields = a.formFields[:0]
	a.formTitles = a.formTitles[:0]
	for _, f := range probe.Children {
		title := f.Title
		if title == "" {
			title = f.ID
		}
		a.formFields = append(a.formFields, f.ID)
		a.formTitles = append(a.formTitles, title)
	}
	a.formSubmit = probe.OnSubmit
	a.formField = 0
	a.formInput.SetValue("")
	a.formInput.Placeholder = a.formTitles[0]
	a.formInput.Focus()
	a.mode = modeFormInput
	return a, textinput.Blink
}

func (a App) updateFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.mode = modeSession
		return a, nil
	case key.Matches(msg, a.keys.Select):
		a.formValues[a.formFields[a.formField]] = a.formInput.Value()
		a.formField++
		if a.formField < len(a.formFields) {
			a.formInput.SetValue("")
			a.formInput.Placeholder = a.formTitles[a.formField]
			return a, nil
		}
		input, err := json.Marshal(a.formValues)
		if err != nil {
			a.lastError = err.Error()
			a.mode = modeSession
			return a, nil
		}
		a.mode = modeSession
		return a.dispatch(a.formSubmit, input)
	}
	var cmd tea.Cmd
	a.formInput, cmd = a.formInput.Update(msg)
	return a, cmd
}

func (a App) execute(index int, input json.RawMessage) (tea.Model, tea.Cmd) {
	data, err := a.core.Execute(index, input)
	if err != nil {
		a.lastError = err.Error()
		return a, nil
	}
	return a.afterResult(data)
}

func (a App) dispatch(token string, input json.RawMessage) (tea.Model, tea.Cmd) {
	data, err := a.core.DispatchToken(token, input)
	if err != nil {
		a.lastError = err.Error()
		return a, nil
	}
	return a.afterResult(data)
}

func (a App) afterResult(data []byte) (tea.Model, tea.Cmd) {
	var result runtime.Result
	if err := json.Unmarshal(data, &result); err != nil {
		a.lastError = err.Error()
		return a, nil
	}

	switch result.Kind {
	case runtime.ResultError:
		a.lastError = result.Message
	case runtime.ResultNeedsInput:
		a.status = result.Message
	case runtime.ResultQuit:
		return a, tea.Quit
	default:
		a.lastError = ""
		a.status = ""
	}

	if a.core.HasSession() {
		a.mode = modeSession
		if a.sessionSelected >= SelectableCount(a.core.SessionTree()) {
			a.sessionSelected = 0
		}
	} else {
		a.mode = modeSearch
		a.sessionSelected = 0
		return a, a.searchCmd(a.input.Value())
	}
	return a, nil
}

// itemAt maps a selectable row back to its list item id.
func (a App) itemAt(row int) string {
	ids := selectableItemIDs(a.core.SessionTree())
	if row < 0 || row >= len(ids) {
		return ""
	}
	return ids[row]
}

func (a App) View() string {
	var b strings.Builder

	switch a.mode {
	case modeSearch:
		b.WriteString(a.input.View())
		b.WriteString("\n\n")
		b.WriteString(a.viewHits())
	case modeSession, modeActions:
		b.WriteString(RenderWire(a.core.SessionTree(), a.theme, a.sessionSelected, a.width))
		if a.mode == modeActions {
			b.WriteString("\n" + a.viewActions())
		}
	case modeFormInput:
		b.WriteString(RenderWire(a.core.SessionTree(), a.theme, a.formField, a.width))
		b.WriteString("\n" + a.formInput.View())
	}

	if a.lastError != "" {
		b.WriteString("\n" + a.theme.ErrorStyle.Render(a.lastError))
	}
	if a.status != "" {
		b.WriteString("\n" + a.theme.StatusStyle.Render(a.status))
	}
	return b.String()
}

func (a App) viewHits() string {
	var b strings.Builder
	for i, hit := range a.hits {
		line := hit.Title
		if hit.Subtitle != "" {
			line += "  " + a.theme.SubtitleStyle.Render(hit.Subtitle)
		}
		line += "  " + a.theme.AccessoryStyle.Render(hit.ExtensionTitle)
		if i == a.selected {
			b.WriteString(a.theme.SelectedStyle.Render("> " + line))
		} else {
			b.WriteString(a.theme.ItemStyle.Render("  " + line))
		}
		b.WriteByte('\n')
	}
	if len(a.hits) == 0 {
		b.WriteString(a.theme.SubtitleStyle.Render("  no matching commands"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (a App) viewActions() string {
	var lines []string
	for i, info := range a.actions {
		line := info.Title
		if info.Style == "destructive" {
			line = a.theme.DangerStyle.Render(line)
		}
		if i == a.actionSelected {
			line = a.theme.SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.Border).
		Padding(0, 1)
	return panel.Render(strings.Join(lines, "\n"))
}

// Run 启动 TUI / Run starts the TUI
func Run(core *host.Core) error {
	p := tea.NewProgram(NewApp(core), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
