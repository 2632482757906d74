package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"study-importer/internal/studydump"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{APIKey: "  "}, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

const fakeDump = "## 학습 정리\n옴의 법칙 개요\n\n## Q&A\n###\nQ: 옴의 법칙은?\nA: V = IR\n###"

func fakeServer(t *testing.T, content string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   got["model"],
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestGenerateDump(t *testing.T) {
	srv, body := fakeServer(t, fakeDump)
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "gpt-test"}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := c.GenerateDump(context.Background(), DumpRequest{Notes: "옴의 법칙", Style: StyleBlock, Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != fakeDump {
		t.Fatalf("dump = %q", out)
	}
	if (*body)["model"] != "gpt-test" {
		t.Fatalf("request model = %v", (*body)["model"])
	}
	if r := studydump.Parse(out); r.DetectedDialect != studydump.DialectSummaryAndQA || r.EntryCount != 1 {
		t.Fatalf("generated dump did not parse: %+v", r)
	}
}

func TestGenerateDumpModelOverride(t *testing.T) {
	srv, body := fakeServer(t, fakeDump)
	c, _ := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1/"}, nil)
	if _, err := c.GenerateDump(context.Background(), DumpRequest{Notes: "x", Model: "gpt-other"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if (*body)["model"] != "gpt-other" {
		t.Fatalf("request model = %v", (*body)["model"])
	}
}

func TestGenerateDumpEmpty(t *testing.T) {
	srv, _ := fakeServer(t, "   ")
	c, _ := New(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)

	if _, err := c.GenerateDump(context.Background(), DumpRequest{Notes: "\n"}); !errors.Is(err, ErrEmptyNotes) {
		t.Fatalf("err = %v, want ErrEmptyNotes", err)
	}
	if _, err := c.GenerateDump(context.Background(), DumpRequest{Notes: "x"}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}
