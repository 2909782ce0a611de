package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := newGeminiProvider(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL + "/"},
	}, "gemini-flash")
	if err != nil {
		t.Fatalf("newGeminiProvider: %v", err)
	}
	return p
}

func geminiReply(text, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
				"finishReason": finish,
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     42,
				"candidatesTokenCount": 18,
				"totalTokenCount":      60,
			},
		})
	}
}

func TestGeminiProvider_Sentence(t *testing.T) {
	var body map[string]any
	reply := geminiReply(`{"sentence":"我喝咖啡。","pinyin":"Wǒ hē kāfēi.","translation":"I drink coffee."}`, "STOP")
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		reply(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write example sentences.",
		Messages:  []Message{{Role: RoleUser, Content: "咖啡"}},
		Schema:    sentenceSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 60 || resp.StopReason != StopEnd || resp.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	gen, _ := body["generationConfig"].(map[string]any)
	if gen["responseMimeType"] != "application/json" || gen["responseJsonSchema"] == nil {
		t.Fatalf("schema not sent: %v", gen)
	}
}

func TestGeminiProvider_Truncated(t *testing.T) {
	p := newTestGeminiProvider(t, geminiReply(`{"sentence":"我喝`, "MAX_TOKENS"))
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "咖啡"}},
		Schema:   sentenceSchema,
	})
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindTruncated || e.Provider != ProviderGemini {
		t.Fatalf("expected gemini truncation, got %v", err)
	}
}

func TestGeminiProvider_BadRequest(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "Invalid JSON payload", "status": "INVALID_ARGUMENT"},
		})
	})
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "咖啡"}}})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejected, got %v", err)
	}
}

func TestGeminiConfig(t *testing.T) {
	cfg := geminiConfig(Request{System: "sys", Temperature: 0.5, MaxTokens: 128})
	if cfg.MaxOutputTokens != 128 || cfg.Temperature == nil || *cfg.Temperature != 0.5 {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.ResponseJsonSchema != nil || cfg.ResponseMIMEType != "" {
		t.Fatal("plain request asked for JSON")
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "sys" {
		t.Fatalf("system = %+v", cfg.SystemInstruction)
	}
}

func TestGeminiModelAliases(t *testing.T) {
	for alias, id := range map[string]string{
		"gemini-flash":     "gemini-2.0-flash",
		"gemini-pro":       "gemini-2.0-pro",
		"gemini-2.5-flash": "gemini-2.5-flash",
	} {
		if got := resolveModel(alias, geminiModels); got != id {
			t.Errorf("resolveModel(%q) = %q, want %q", alias, got, id)
		}
	}
}

func TestGeminiError(t *testing.T) {
	if err := geminiError(genai.APIError{Code: 429, Message: "quota"}); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("429: %v", err)
	}
	if err := geminiError(errors.New("dial tcp: timeout")); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("network: %v", err)
	}
}
