package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"study-importer/internal/assistant"
	"study-importer/internal/config"
	"study-importer/internal/deck"
	"study-importer/internal/logger"
	"study-importer/internal/studydump"
)

// app holds what every command needs: configuration and a logger.
type app struct {
	cfg config.Config
	log *logger.Logger
}

// newApp loads the config at path. The TUI logs to the configured file so
// the screen stays clean; other commands log to stderr.
func newApp(path string, toFile bool) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	file := ""
	if toFile {
		file = cfg.Log.File
	}
	log, err := logger.New(cfg.Log.Mode, file)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) close() {
	a.log.Sync()
}

func (a *app) openStore() (*deck.Store, error) {
	return deck.Open(a.cfg.Database.Path, a.log)
}

func (a *app) newAssistant() (*assistant.Client, error) {
	return assistant.New(assistant.Config{
		APIKey:  a.cfg.OpenAI.APIKey,
		Model:   a.cfg.OpenAI.Model,
		BaseURL: a.cfg.OpenAI.BaseURL,
	}, a.log)
}

// readInput reads the named file, or stdin when name is "" or "-".
func readInput(name string, stdin io.Reader) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// exportJSON is the document written by "parse --json" and the TUI save action.
type exportJSON struct {
	Result studydump.Result `json:"result"`
	Issues []string         `json:"issues"`
}

func marshalExport(r studydump.Result) ([]byte, error) {
	issues := studydump.Validate(r)
	if issues == nil {
		issues = []string{}
	}
	return json.MarshalIndent(exportJSON{Result: r, Issues: issues}, "", "  ")
}
