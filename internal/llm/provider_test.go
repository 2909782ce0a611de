package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_RepliesInOrder(t *testing.T) {
	mock := NewMockProvider(
		SentenceReply("我有一个哥哥。", "Wǒ yǒu yí gè gēge.", "I have an older brother."),
		SentenceReply("哥哥在家。", "Gēge zài jiā.", "Brother is at home."),
	)
	req := Request{Schema: sentenceSchema, Messages: []Message{{Role: RoleUser, Content: "哥哥"}}}

	first, err := mock.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out struct{ Sentence string }
	if err := first.Decode(&out); err != nil || out.Sentence != "我有一个哥哥。" {
		t.Fatalf("first reply: %+v, %v", out, err)
	}
	if first.Usage.TotalTokens != 90 || first.StopReason != StopEnd || first.Model != "mock" {
		t.Fatalf("unexpected reply metadata: %+v", first)
	}

	second, err := mock.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := second.Decode(&out); err != nil || out.Sentence != "哥哥在家。" {
		t.Fatalf("second reply: %+v, %v", out, err)
	}
	if mock.CallCount() != 2 || mock.Calls[0].Messages[0].Content != "哥哥" {
		t.Fatalf("calls not recorded: %+v", mock.Calls)
	}
}

func TestMockProvider_EmptyQueueIsUnavailable(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	mock.Queue(SentenceReply("好", "hǎo", "good"))
	if _, err := mock.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("queued reply: %v", err)
	}
}

func TestMockProvider_AppliesSchemaAndTruncation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"sentence":"好"}`)},
		MockResponse{Content: json.RawMessage(`{"sentence":"我`), StopReason: StopMaxTokens},
		MockResponse{Err: &Error{Kind: KindRateLimited}},
	)
	req := Request{Schema: sentenceSchema}

	if _, err := mock.Generate(context.Background(), req); !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected invalid response, got %v", err)
	}
	if _, err := mock.Generate(context.Background(), req); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation, got %v", err)
	}
	if _, err := mock.Generate(context.Background(), req); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected rate limit, got %v", err)
	}
}

func TestCallContext(t *testing.T) {
	if c := CallFrom(context.Background()); c.Purpose != "unknown" || c.Subject != "" {
		t.Fatalf("default call = %+v", c)
	}

	ctx := WithCall(context.Background(), Call{Purpose: "example", Subject: "咖啡"})
	if c := CallFrom(ctx); c.Purpose != "example" || c.Subject != "咖啡" {
		t.Fatalf("call = %+v", c)
	}

	ctx = WithCall(context.Background(), Call{Subject: "牛奶"})
	if c := CallFrom(ctx); c.Purpose != "unknown" || c.Subject != "牛奶" {
		t.Fatalf("call without purpose = %+v", c)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, APIKey: "sk-test"}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"openai with key", Config{Provider: ProviderOpenAI, APIKey: "sk-test"}, false},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, APIKey: "sk-or"}, false},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
		{"empty provider", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, e := range apiKeyEnv {
		t.Setenv(e.env, "")
	}
}

func TestDiscoverConfig_PriorityOrder(t *testing.T) {
	clearKeyEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderOpenAI || cfg.APIKey != "sk-oai" {
		t.Fatalf("expected openai first, got %q", cfg.Provider)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
}

func TestResolve(t *testing.T) {
	clearKeyEnv(t)

	if _, ok := Resolve(Config{}); ok {
		t.Fatal("expected nothing to resolve")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	cfg, ok := Resolve(Config{Model: "claude-sonnet", Timeout: 5 * time.Second})
	if !ok {
		t.Fatal("expected discovery to succeed")
	}
	if cfg.Provider != ProviderAnthropic || cfg.Model != "claude-sonnet" || cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected resolved config: %+v", cfg)
	}

	cfg, ok = Resolve(Config{Provider: ProviderAnthropic})
	if !ok || cfg.APIKey != "sk-ant" {
		t.Fatalf("expected key from env, got %+v", cfg)
	}
	if cfg.Model != "claude-haiku" || cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("expected defaults filled, got %+v", cfg)
	}

	cfg, _ = Resolve(Config{Provider: ProviderOpenAI, APIKey: "explicit"})
	if cfg.APIKey != "explicit" {
		t.Fatalf("explicit key overwritten: %q", cfg.APIKey)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock model, got %q", p.ModelID())
	}
}

func TestNewProvider_RejectsInvalid(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: ProviderGemini}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gpt-4o-mini"); c == nil || c.InputPerMTok != 0.15 {
		t.Fatalf("unexpected cost: %+v", c)
	}
	if c := LookupCost("google/gemini-2.0-flash-exp"); c == nil || c.OutputPerMTok != 0.4 {
		t.Fatalf("expected openrouter id to resolve, got %+v", c)
	}
	if _, ok := EstimateCost("no-such-model", 10, 10); ok {
		t.Fatal("expected unknown model")
	}
	cost, ok := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	if !ok || cost != 12.5 {
		t.Fatalf("expected 12.5, got %v", cost)
	}
}
