package llm

import (
	"context"
	"errors"
	"testing"
)

func TestCleanCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "<div>hi</div>", "<div>hi</div>"},
		{"bare fence", "```\n<div>hi</div>\n```", "<div>hi</div>"},
		{"html fence", "```html\n<div>hi</div>\n```", "<div>hi</div>"},
		{"leading whitespace", "  \n```html\n<p>x</p>\n```  ", "<p>x</p>"},
		{"fence only at start", "```html\n<p>x</p>", "<p>x</p>"},
		{"no trailing newline before close", "```html\n<p>x</p>```", "<p>x</p>"},
		{"triple backticks inside content kept", "<pre>```</pre>", "<pre>```</pre>"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCodeFences(tt.in); got != tt.want {
				t.Errorf("CleanCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		cfg := &Config{Model: "gemini-2.5-flash"}
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !IsConfigError(err) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := &Config{APIKey: "test-key"}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{APIKey: "test-key", Model: "gemini-2.5-flash"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		cfg.SetDefaults()
		if cfg.RequestsPerSecond != 1 {
			t.Errorf("expected default RPS 1, got %v", cfg.RequestsPerSecond)
		}
		if cfg.Burst != 4 {
			t.Errorf("expected default burst 4, got %d", cfg.Burst)
		}
	})
}

func TestMockClient_Stream(t *testing.T) {
	mock := &MockClient{Chunks: []string{"<div>", "hi", "</div>"}}

	var got string
	err := mock.GenerateTextStream(context.Background(), "p", func(text string) error {
		got += text
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "<div>hi</div>" {
		t.Errorf("expected accumulated chunks, got %q", got)
	}
	if len(mock.Prompts()) != 1 || mock.Prompts()[0] != "p" {
		t.Errorf("expected recorded prompt, got %v", mock.Prompts())
	}
}

func TestMockClient_StreamAbort(t *testing.T) {
	mock := &MockClient{Chunks: []string{"a", "b", "c"}}
	abort := errors.New("stop")

	seen := 0
	err := mock.GenerateTextStream(context.Background(), "p", func(string) error {
		seen++
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("expected abort error, got %v", err)
	}
	if seen != 1 {
		t.Errorf("expected stream to stop after first chunk, saw %d", seen)
	}
}

func TestLLMError_Unwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := NewAPIError(underlying)
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find underlying error")
	}
}
