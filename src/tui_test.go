package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"study-importer/internal/assistant"
	"study-importer/internal/deck"
	"study-importer/internal/studydump"
)

const sampleDump = "## 학습 정리\n회로 요약\n\n## Q&A\n###\nQ: 저항이란?\nA: 전류를 제한하는 소자\n###"

type fakeImporter struct {
	calls int
	last  studydump.Result
}

func (f *fakeImporter) Import(_ context.Context, title string, r studydump.Result) (*deck.Deck, error) {
	f.calls++
	f.last = r
	return &deck.Deck{ID: uuid.New(), Title: r.Summary.Title, CardCount: r.EntryCount}, nil
}

type fakeGenerator struct {
	req assistant.DumpRequest
}

func (f *fakeGenerator) GenerateDump(_ context.Context, req assistant.DumpRequest) (string, error) {
	f.req = req
	return sampleDump, nil
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(model)
	}
	return m, cmd
}

func sized(m model) model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return next.(model)
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyCtrlP = tea.KeyMsg{Type: tea.KeyCtrlP}
	keyCtrlD = tea.KeyMsg{Type: tea.KeyCtrlD}
	keyCtrlG = tea.KeyMsg{Type: tea.KeyCtrlG}
)

func TestPreviewKey(t *testing.T) {
	m := sized(newModel(tuiDeps{}))
	m.input.SetValue(sampleDump)

	m, _ = press(t, m, keyCtrlP)
	if m.result == nil || m.result.DetectedDialect != studydump.DialectSummaryAndQA || m.result.EntryCount != 1 {
		t.Fatalf("result = %+v", m.result)
	}
	if !strings.Contains(m.status, "summaryAndQA, 1 entries") {
		t.Fatalf("status = %q", m.status)
	}
	if !strings.Contains(m.preview.View(), "저항이란?") {
		t.Fatalf("preview does not show the entry:\n%s", m.preview.View())
	}
}

func TestImportBlockedByIssue(t *testing.T) {
	store := &fakeImporter{}
	m := sized(newModel(tuiDeps{store: store}))

	m, _ = press(t, m, keyCtrlD)
	if store.calls != 0 {
		t.Fatal("invalid dump must not be imported")
	}
	if m.status != "Cannot import: "+studydump.IssueNothingFound {
		t.Fatalf("status = %q", m.status)
	}
}

func TestImportWithoutStore(t *testing.T) {
	m := sized(newModel(tuiDeps{}))
	m.input.SetValue(sampleDump)
	m, _ = press(t, m, keyCtrlD)
	if !strings.Contains(m.status, "deck storage is unavailable") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestImport(t *testing.T) {
	store := &fakeImporter{}
	m := sized(newModel(tuiDeps{store: store}))
	m.input.SetValue(sampleDump)

	m, cmd := press(t, m, keyCtrlD)
	if cmd == nil {
		t.Fatal("expected an import command")
	}
	next, _ := m.Update(cmd())
	m = next.(model)
	if store.calls != 1 || store.last.EntryCount != 1 {
		t.Fatalf("import calls = %d, result %+v", store.calls, store.last)
	}
	if m.status != "Imported deck '회로 요약' with 1 card(s)" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestGenerateFlow(t *testing.T) {
	gen := &fakeGenerator{}
	m := sized(newModel(tuiDeps{generator: gen}))
	m.input.SetValue("옴의 법칙 노트")

	m, _ = press(t, m, keyCtrlG)
	if m.state != stateSelectModel {
		t.Fatalf("state = %v, want model selection", m.state)
	}
	m, _ = press(t, m, keyEnter)
	if m.state != stateSelectStyle || m.selectedModel != assistant.Models[0] {
		t.Fatalf("state = %v, model = %q", m.state, m.selectedModel)
	}
	m, _ = press(t, m, keyEnter)
	if m.state != stateEnterCount || m.selectedStyle != assistant.StyleBlock {
		t.Fatalf("state = %v, style = %q", m.state, m.selectedStyle)
	}
	m, cmd := press(t, m, keyEnter)
	if cmd == nil || m.state != stateDefault {
		t.Fatalf("expected generation to start, state = %v", m.state)
	}

	next, _ := m.Update(cmd())
	m = next.(model)
	if gen.req.Notes != "옴의 법칙 노트" || gen.req.Count != assistant.DefaultCount {
		t.Fatalf("request = %+v", gen.req)
	}
	if m.input.Value() != sampleDump || m.result == nil || m.result.EntryCount != 1 {
		t.Fatalf("generated dump not loaded: %q", m.input.Value())
	}
}

func TestGenerateRequiresKey(t *testing.T) {
	m := sized(newModel(tuiDeps{}))
	m.input.SetValue("notes")
	m, _ = press(t, m, keyCtrlG)
	if m.state != stateDefault || !strings.Contains(m.status, "API key") {
		t.Fatalf("state = %v, status = %q", m.state, m.status)
	}
}

func TestModelItems(t *testing.T) {
	items := modelItems("gpt-5")
	if first := items[0].(item); first.id != "gpt-5" || first.desc != "Configured default" {
		t.Fatalf("first item = %+v", first)
	}
	if len(items) != len(assistant.Models) {
		t.Fatalf("configured model duplicated: %d items", len(items))
	}
}
