package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// lineInput abstracts the REPL's line source so tests can feed scripted
// input and non-tty runs degrade to plain stdin.
type lineInput interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// newLineInput prefers readline (history file, slash-command completion) and
// falls back to buffered stdin when no terminal is available.
func newLineInput(historyPath string) (lineInput, error) {
	in, err := newReadlineInput(historyPath)
	if err != nil {
		return newBasicLineInput(os.Stdin, os.Stdout), err
	}
	return in, nil
}

type readlineInput struct {
	rl *readline.Instance
}

func newReadlineInput(historyPath string) (*readlineInput, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "nova> ",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
		AutoComplete:      slashCompleter(),
	})
	if err != nil {
		return nil, err
	}
	return &readlineInput{rl: rl}, nil
}

// slashCompleter derives the completion set from replCommands so help text
// and completion never drift apart.
func slashCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range replCommands {
		name, _, _ := strings.Cut(cmd, " ")
		if strings.HasPrefix(name, "/") {
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *readlineInput) Close() error {
	if r == nil || r.rl == nil {
		return nil
	}
	return r.rl.Close()
}

type basicLineInput struct {
	reader *bufio.Reader
	out    io.Writer
}

func newBasicLineInput(in io.Reader, out io.Writer) *basicLineInput {
	return &basicLineInput{reader: bufio.NewReader(in), out: out}
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineInput) Close() error { return nil }
