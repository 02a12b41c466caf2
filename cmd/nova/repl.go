package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"nova/internal/host"
	"nova/internal/runtime"
	"nova/internal/search"
)

var replCommands = []string{
	"<text>            search commands",
	"/run <n>          execute search result or action n",
	"/submit <json>    submit the active form with field values",
	"/tree             print the active session tree",
	"/actions          list the active session's actions",
	"/back             close the active session",
	"/extensions       list loaded extensions",
	"/history          show clipboard history",
	"/reload           rescan the extensions directory",
	"/quit             exit",
}

func printREPLCommands(out io.Writer) {
	fmt.Fprintln(out, "commands:")
	for _, cmd := range replCommands {
		fmt.Fprintf(out, "  %s\n", cmd)
	}
}

// runREPL 是无 TUI 的行模式;语义与 TUI 完全一致,便于脚本化调试。
// runREPL is the line-mode front end. Semantics match the TUI exactly, which
// makes scripted debugging possible.
func runREPL(core *host.Core, historyPath string) error {
	input, inputErr := newLineInput(historyPath)
	if inputErr != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer input.Close()

	fmt.Println("nova launcher (plain mode)")
	printREPLCommands(os.Stdout)

	for {
		prompt := "nova> "
		if core.HasSession() {
			prompt = "session> "
		}
		line, err := input.ReadLine(prompt)
		if err != nil {
			switch {
			case errors.Is(err, readline.ErrInterrupt):
				fmt.Println()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(os.Stderr, "\nexit")
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := handleCommand(core, text); quit {
				return nil
			}
			continue
		}

		// bare text searches
		data, err := core.Search(text, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
			continue
		}
		printSearchResults(data)
	}
}

func handleCommand(core *host.Core, text string) (quit bool) {
	cmd, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/run":
		index, err := strconv.Atoi(rest)
		if err != nil {
			fmt.Fprintln(os.Stderr, "usage: /run <n>")
			return false
		}
		out, err := core.Execute(index, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "execute failed: %v\n", err)
			return false
		}
		printResult(out)
		if core.HasSession() {
			fmt.Println(string(core.SessionTree()))
		}

	case "/submit":
		token := formSubmitToken(core.SessionTree())
		if token == "" {
			fmt.Fprintln(os.Stderr, "no form is active")
			return false
		}
		out, err := core.DispatchToken(token, json.RawMessage(rest))
		if err != nil {
			fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
			return false
		}
		printResult(out)

	case "/tree":
		tree := core.SessionTree()
		if tree == nil {
			fmt.Fprintln(os.Stderr, "no active session")
			return false
		}
		fmt.Println(string(tree))

	case "/actions":
		actions := core.SessionActions()
		if len(actions) == 0 {
			fmt.Println("no actions")
			return false
		}
		for _, a := range actions {
			label := a.Title
			if a.Style == "destructive" {
				label += " (destructive)"
			}
			fmt.Printf("  [%d] %s\n", a.Index, label)
		}

	case "/back":
		core.CloseSession()

	case "/extensions":
		for _, m := range core.Manifests() {
			fmt.Printf("  %s %s - %s (%d commands)\n",
				m.Extension.Name, m.Extension.Version, m.Extension.Title, len(m.Commands))
		}

	case "/history":
		for i, entry := range core.ClipboardHistory() {
			fmt.Printf("  [%d] %s\n", i, entry)
		}

	case "/reload":
		core.Reload()
		fmt.Println("extensions reloaded")

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
	}
	return false
}

func printSearchResults(data []byte) {
	var resp search.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "decode results: %v\n", err)
		return
	}
	if len(resp.Results) == 0 {
		fmt.Println("no matching commands")
		return
	}
	for i, r := range resp.Results {
		var hit search.CommandHit
		if err := json.Unmarshal(r.Data, &hit); err != nil {
			continue
		}
		fmt.Printf("  [%d] %s - %s (%s)\n", i, hit.Title, hit.ExtensionTitle, hit.Mode)
	}
}

func printResult(data []byte) {
	var result runtime.Result
	if err := json.Unmarshal(data, &result); err != nil {
		fmt.Fprintf(os.Stderr, "decode result: %v\n", err)
		return
	}
	if result.Message != "" {
		fmt.Printf("%s: %s\n", result.Kind, result.Message)
		return
	}
	fmt.Println(string(result.Kind))
}

// formSubmitToken pulls the onSubmit token out of the rendered tree.
func formSubmitToken(tree []byte) string {
	if tree == nil {
		return ""
	}
	var probe struct {
		Type     string `json:"type"`
		OnSubmit string `json:"onSubmit"`
	}
	if err := json.Unmarshal(tree, &probe); err != nil || probe.Type != "Form" {
		return ""
	}
	return probe.OnSubmit
}
