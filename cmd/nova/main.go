package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"nova/internal/config"
	"nova/internal/demo"
	"nova/internal/host"
	"nova/internal/tui"
)

func main() {
	var (
		configPath string
		plain      bool
		query      string
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON")
	flag.BoolVar(&plain, "plain", false, "Plain line-mode REPL instead of the TUI")
	flag.StringVar(&query, "query", "", "Run one search and print the results as JSON")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	core, err := host.NewCore(cfg, host.WithExtension(&host.Extension{
		Manifest: demo.Manifest(),
		Commands: demo.Commands(),
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init core failed: %v\n", err)
		os.Exit(1)
	}
	defer core.Close()

	if query != "" {
		data, err := core.Search(query, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if plain {
		historyPath := filepath.Join(cfg.DataDir, "repl.history")
		if err := runREPL(core, historyPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := tui.Run(core); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
