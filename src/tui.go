package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"study-importer/internal/assistant"
	"study-importer/internal/config"
	"study-importer/internal/deck"
	"study-importer/internal/logger"
	"study-importer/internal/studydump"
)

// --- Enums & Types ---

type sessionState int

const (
	stateDefault sessionState = iota
	stateFilePicker
	stateSaveFilepath
	stateSelectModel
	stateSelectStyle
	stateEnterCount
)

type pane int

const (
	inputPane pane = iota
	previewPane
)

type deckImporter interface {
	Import(ctx context.Context, title string, r studydump.Result) (*deck.Deck, error)
}

type dumpGenerator interface {
	GenerateDump(ctx context.Context, req assistant.DumpRequest) (string, error)
}

// tuiDeps are the collaborators of the TUI. store and generator may be nil;
// the matching actions then report why they are unavailable.
type tuiDeps struct {
	cfg       config.Config
	log       *logger.Logger
	store     deckImporter
	generator dumpGenerator
}

type (
	fileReadMsg         struct{ content []byte; path string }
	fileWriteMsg        struct{ path string }
	generationResultMsg struct{ text string; err error }
	deckImportedMsg     struct{ deck *deck.Deck; err error }
	resetStatusMsg      struct{}
	errMsg              struct{ err error }
)

func (e errMsg) Error() string { return e.err.Error() }

// --- Commands ---

func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		c, err := os.ReadFile(path)
		if err != nil {
			return errMsg{err}
		}
		return fileReadMsg{content: c, path: path}
	}
}

func writeFileCmd(path string, content []byte) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return errMsg{err}
		}
		return fileWriteMsg{path: path}
	}
}

func generateCmd(g dumpGenerator, req assistant.DumpRequest) tea.Cmd {
	return func() tea.Msg {
		text, err := g.GenerateDump(context.Background(), req)
		return generationResultMsg{text: text, err: err}
	}
}

func importCmd(s deckImporter, r studydump.Result) tea.Cmd {
	return func() tea.Msg {
		d, err := s.Import(context.Background(), "", r)
		return deckImportedMsg{deck: d, err: err}
	}
}

func resetStatusCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return resetStatusMsg{}
	})
}

// --- Styles ---
var (
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
	focusedStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
	blurredStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// --- Model ---

type model struct {
	deps          tuiDeps
	state         sessionState
	err           error
	status        string
	defaultStatus string

	// UI Components
	input      textarea.Model
	preview    viewport.Model
	focused    pane
	pathInput  textinput.Model
	countInput textinput.Model
	list       list.Model
	filepicker filepicker.Model

	// Content
	inputFilePath string
	result        *studydump.Result
	issues        []string
	previewWidth  int

	// Generation Parameters
	selectedModel string
	selectedStyle assistant.Style
	count         string
}

func newModel(deps tuiDeps) model {
	if deps.log == nil {
		deps.log = logger.Nop()
	}
	defaultStatus := "Ctrl+O: Load | Ctrl+P: Preview | Ctrl+S: Save JSON | Ctrl+D: Import | Ctrl+G: Generate | Tab: Switch Panes"
	m := model{
		deps:          deps,
		state:         stateDefault,
		status:        defaultStatus,
		defaultStatus: defaultStatus,
		focused:       inputPane,
		count:         strconv.Itoa(assistant.DefaultCount),
	}

	t := textarea.New()
	t.ShowLineNumbers = true
	t.CharLimit = 0
	t.MaxHeight = 0
	t.FocusedStyle.Base = focusedStyle
	t.BlurredStyle.Base = blurredStyle
	t.Placeholder = "Paste a study dump or load a file. For Ctrl+G, type your notes here."
	t.Focus()
	m.input = t

	m.preview = viewport.New(0, 0)
	m.preview.SetContent(helpStyle.Render("Press Ctrl+P to preview the parsed dump."))

	// Inputs
	m.pathInput = textinput.New()
	m.pathInput.Placeholder = "Save file as..."
	m.pathInput.CharLimit = 256
	m.pathInput.Width = 80

	m.countInput = textinput.New()
	m.countInput.Placeholder = m.count
	m.countInput.CharLimit = 2
	m.countInput.Width = 5

	// List
	m.list = list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	m.list.SetShowHelp(false)

	// Filepicker
	fp := filepicker.New()
	fp.AllowedTypes = []string{".txt", ".md"}
	fp.CurrentDirectory, _ = filepath.Abs(deps.cfg.TUI.StartDir)
	m.filepicker = fp

	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.filepicker.Init())
}

// parseInput parses the input pane and refreshes the preview.
func (m model) parseInput() model {
	r := studydump.Parse(m.input.Value())
	m.result = &r
	m.issues = studydump.Validate(r)
	m.preview.SetContent(renderPreview(r, m.issues, m.previewWidth))
	m.preview.GotoTop()
	m.deps.log.Debug("parsed input", "dialect", r.DetectedDialect, "entries", r.EntryCount, "issues", len(m.issues))
	return m
}

func (m model) parseStatus() string {
	if len(m.issues) > 0 {
		return "Parsed with issues: " + m.issues[0]
	}
	return fmt.Sprintf("Parsed: %s, %d entries", m.result.DetectedDialect, m.result.EntryCount)
}

// --- Update ---

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		panelWidth := (msg.Width - h) / 2
		listWidth := msg.Width - h
		panelHeight := msg.Height - v - 3

		m.input.SetWidth(panelWidth)
		m.input.SetHeight(panelHeight)
		fh, fv := focusedStyle.GetFrameSize()
		m.preview.Width = max(panelWidth-fh, 0)
		m.preview.Height = max(panelHeight-fv, 0)
		m.previewWidth = m.preview.Width
		if m.result != nil {
			m.preview.SetContent(renderPreview(*m.result, m.issues, m.previewWidth))
		}
		m.list.SetSize(listWidth, panelHeight)
		m.filepicker.Height = panelHeight
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// State-specific updates
		switch m.state {
		case stateFilePicker:
			if msg.String() == "esc" {
				m.state = stateDefault
				m.status = "File selection cancelled."
				return m, resetStatusCmd()
			}
			var cmd tea.Cmd
			m.filepicker, cmd = m.filepicker.Update(msg)
			if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
				m.state = stateDefault
				return m, readFileCmd(path)
			}
			return m, cmd
		case stateSaveFilepath:
			return updatePathInput(msg, m)
		case stateSelectModel, stateSelectStyle:
			return updateListSelection(msg, m)
		case stateEnterCount:
			return updateCountInput(msg, m)
		default:
			return updateDefault(msg, m)
		}

	case resetStatusMsg:
		m.status = m.defaultStatus
		return m, nil

	case fileReadMsg:
		m.input.SetValue(string(msg.content))
		m.inputFilePath = msg.path
		m = m.parseInput()
		m.status = fmt.Sprintf("Loaded '%s'. %s", filepath.Base(msg.path), m.parseStatus())
		m.state = stateDefault
		m.deps.log.Info("file loaded", "path", msg.path)
		return m, resetStatusCmd()

	case fileWriteMsg:
		m.status = fmt.Sprintf("Saved to '%s'", filepath.Base(msg.path))
		m.state = stateDefault
		return m, resetStatusCmd()

	case generationResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Generation Error: %v", msg.err)
			m.deps.log.Warn("generation failed", "error", msg.err)
		} else {
			m.input.SetValue(msg.text)
			m = m.parseInput()
			m.status = "Generation complete! " + m.parseStatus()
		}
		m.state = stateDefault
		return m, resetStatusCmd()

	case deckImportedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Import Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Imported deck '%s' with %d card(s)", msg.deck.Title, msg.deck.CardCount)
		}
		return m, resetStatusCmd()

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	if m.state == stateDefault {
		var cmd tea.Cmd
		if m.focused == inputPane {
			m.input, cmd = m.input.Update(msg)
		} else {
			m.preview, cmd = m.preview.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func updateDefault(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		m.state = stateFilePicker
		m.status = "Select a file to load."
		return m, m.filepicker.Init()

	case "ctrl+p":
		m = m.parseInput()
		m.status = m.parseStatus()
		return m, resetStatusCmd()

	case "ctrl+s":
		m = m.parseInput()
		m.state = stateSaveFilepath
		name := "result"
		if m.inputFilePath != "" {
			name = strings.TrimSuffix(filepath.Base(m.inputFilePath), filepath.Ext(m.inputFilePath))
		}
		m.pathInput.SetValue(fmt.Sprintf("%s_dump.json", name))
		m.pathInput.Focus()
		m.status = "Enter file path to save."
		return m, nil

	case "ctrl+d":
		m = m.parseInput()
		if len(m.issues) > 0 {
			m.status = "Cannot import: " + m.issues[0]
			return m, resetStatusCmd()
		}
		if m.deps.store == nil {
			m.status = "Cannot import: deck storage is unavailable."
			return m, resetStatusCmd()
		}
		m.status = "Importing..."
		return m, importCmd(m.deps.store, *m.result)

	case "ctrl+g":
		if strings.TrimSpace(m.input.Value()) == "" {
			m.status = "Cannot generate: notes are empty."
			return m, resetStatusCmd()
		}
		if m.deps.generator == nil {
			m.status = "Cannot generate: API key is not configured (openai.api_key)."
			return m, resetStatusCmd()
		}
		m.state = stateSelectModel
		m.list.Title = "Select a Model"
		m.list.SetItems(modelItems(m.deps.cfg.OpenAI.Model))
		m.list.Select(0)
		return m, nil

	case "tab":
		if m.focused == inputPane {
			m.input.Blur()
			m.focused = previewPane
			return m, nil
		}
		m.focused = inputPane
		m.input.Focus()
		return m, textarea.Blink
	}

	var cmd tea.Cmd
	if m.focused == inputPane {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.preview, cmd = m.preview.Update(msg)
	}
	return m, cmd
}

func updatePathInput(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" || m.result == nil {
			return m, nil
		}
		data, err := marshalExport(*m.result)
		if err != nil {
			m.status = fmt.Sprintf("Save Error: %v", err)
			m.state = stateDefault
			return m, resetStatusCmd()
		}
		m.state = stateDefault
		m.status = "Saving..."
		return m, writeFileCmd(path, data)
	case "esc":
		m.state = stateDefault
		m.status = "Cancelled save."
		return m, resetStatusCmd()
	}
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func updateListSelection(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "enter":
		it, ok := m.list.SelectedItem().(item)
		if !ok {
			return m, nil
		}
		if m.state == stateSelectModel {
			m.selectedModel = it.id
			m.state = stateSelectStyle
			m.list.Title = "Select Q&A Style"
			m.list.SetItems(styleItems())
			m.list.Select(0)
			return m, nil
		}
		m.selectedStyle = assistant.Style(it.id)
		m.state = stateEnterCount
		m.countInput.SetValue(m.count)
		m.countInput.Focus()
		m.status = "Enter number of questions."
		return m, nil
	case "esc":
		m.state = stateDefault
		m.status = "Cancelled generation."
		return m, resetStatusCmd()
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func updateCountInput(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "enter":
		n, err := strconv.Atoi(strings.TrimSpace(m.countInput.Value()))
		if err != nil || n < 1 || n > assistant.MaxCount {
			m.status = fmt.Sprintf("Enter a number between 1 and %d.", assistant.MaxCount)
			return m, nil
		}
		m.count = strconv.Itoa(n)
		m.state = stateDefault
		m.status = "Generating..."
		m.deps.log.Info("generating dump", "model", m.selectedModel, "style", m.selectedStyle, "count", n)
		return m, generateCmd(m.deps.generator, assistant.DumpRequest{
			Notes: m.input.Value(),
			Style: m.selectedStyle,
			Count: n,
			Model: m.selectedModel,
		})
	case "esc":
		m.state = stateDefault
		m.status = "Cancelled generation."
		return m, resetStatusCmd()
	}
	m.countInput, cmd = m.countInput.Update(msg)
	return m, cmd
}

// --- View ---

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\nError: %v\n\nPress ctrl+c to exit.", m.err)
	}

	switch m.state {
	case stateFilePicker:
		return docStyle.Render(m.filepicker.View())
	case stateSaveFilepath:
		return docStyle.Render(fmt.Sprintf("Save parse result as JSON:\n\n%s", m.pathInput.View()) + "\n\nEnter: confirm | Esc: cancel")
	case stateSelectModel, stateSelectStyle:
		return docStyle.Render(m.list.View())
	case stateEnterCount:
		return docStyle.Render(fmt.Sprintf("Enter number of questions:\n\n%s", m.countInput.View()) + "\n\nEnter: confirm | Esc: cancel")
	default:
		previewStyle := blurredStyle
		if m.focused == previewPane {
			previewStyle = focusedStyle
		}
		panels := lipgloss.JoinHorizontal(lipgloss.Top, m.input.View(), previewStyle.Render(m.preview.View()))
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, panels, helpStyle.Render(m.status)))
	}
}

// --- List Items ---

type item struct {
	title, desc, id string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

// modelItems lists the configured model first, then the built-in choices.
func modelItems(configured string) []list.Item {
	var items []list.Item
	seen := map[string]bool{}
	add := func(id, desc string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		items = append(items, item{title: id, id: id, desc: desc})
	}
	add(strings.TrimSpace(configured), "Configured default")
	for _, id := range assistant.Models {
		add(id, "")
	}
	return items
}

func styleItems() []list.Item {
	return []list.Item{
		item{title: "Block", id: string(assistant.StyleBlock), desc: "### separated Q:/A:/TAGS:/LEVEL: blocks"},
		item{title: "Inline", id: string(assistant.StyleInline), desc: "Q1./A1. pairs under ### topic headings"},
	}
}
