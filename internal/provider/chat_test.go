package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestChatClient_NoCredential(t *testing.T) {
	t.Parallel()

	c := NewChatClient(ChatConfig{})

	_, err := c.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestChatClient_NoCredentialSkipsNetwork(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{Endpoint: srv.URL})

	if _, err := c.Refine(context.Background(), "prompt"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if called {
		t.Error("adapter must not call the network without a credential")
	}
}

func TestChatClient_Generate(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"generated text"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{APIKey: "sk-test", Endpoint: srv.URL})

	text, err := c.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if text != "generated text" {
		t.Errorf("expected generated text, got %q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("expected bearer credential, got %q", gotAuth)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "the prompt" {
		t.Errorf("prompt should be the sole user message, got %+v", gotReq.Messages)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("generation should request json_object output, got %+v", gotReq.ResponseFormat)
	}
}

func TestChatClient_RefineNoJSONMode(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices":[{"message":{"content":"refined"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{APIKey: "sk-test", Endpoint: srv.URL})

	text, err := c.Refine(context.Background(), "refine prompt")
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if text != "refined" {
		t.Errorf("expected refined, got %q", text)
	}
	if gotReq.ResponseFormat != nil {
		t.Errorf("refinement should not request structured output, got %+v", gotReq.ResponseFormat)
	}
}

func TestChatClient_VerbatimFencedOutput(t *testing.T) {
	t.Parallel()

	// The provider sometimes ignores formatting instructions. The adapter
	// must return the fenced text untouched.
	fenced := "```json\n{\"apiSpec\":\"x\"}\n```"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": fenced}},
			},
		})
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{APIKey: "sk-test", Endpoint: srv.URL})

	text, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != fenced {
		t.Errorf("fenced output must pass through verbatim, got %q", text)
	}
}

func TestChatClient_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{APIKey: "sk-test", Endpoint: srv.URL})

	_, err := c.Generate(context.Background(), "prompt")

	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !strings.Contains(provErr.Reason, "429") {
		t.Errorf("diagnostic should carry the status code, got %q", provErr.Reason)
	}
}

func TestChatClient_MalformedEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "internal proxy error"},
		{"empty choices", `{"choices":[]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewChatClient(ChatConfig{APIKey: "sk-test", Endpoint: srv.URL})

			_, err := c.Generate(context.Background(), "prompt")

			var provErr *Error
			if !errors.As(err, &provErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
		})
	}
}

func TestChatClient_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{APIKey: "sk-test", Endpoint: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := c.Generate(context.Background(), "prompt")

	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *Error on timeout, got %v", err)
	}
}

func TestChatClient_SingleRequestNoRetry(t *testing.T) {
	t.Parallel()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewChatClient(ChatConfig{APIKey: "sk-test", Endpoint: srv.URL})

	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if requests != 1 {
		t.Errorf("adapter must perform exactly one request, got %d", requests)
	}
}
