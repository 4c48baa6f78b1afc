package llm

import "testing"

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		input string
		want  ProviderType
	}{
		{"deepseek", ProviderDeepSeek},
		{"DeepSeek", ProviderDeepSeek},
		{"openai", ProviderOpenAI},
		{"gpt", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"claude", ProviderAnthropic},
		{"gemini", ProviderGemini},
		{"google", ProviderGemini},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProviderType(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProviderType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseProviderTypeUnknown(t *testing.T) {
	if _, err := ParseProviderType("llama"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderTypeDefaults(t *testing.T) {
	for _, p := range []ProviderType{ProviderDeepSeek, ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		if p.DefaultModel() == "" {
			t.Errorf("%s: missing default model", p)
		}
		if p.EnvVar() == "" {
			t.Errorf("%s: missing env var", p)
		}
	}
}

func TestBuilderAppliesDefaults(t *testing.T) {
	provider, err := NewProviderBuilder(ProviderDeepSeek).APIKey("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "deepseek" {
		t.Errorf("unexpected name %q", provider.Name())
	}
	if provider.Model() != ModelDeepSeekReasoner {
		t.Errorf("expected default model, got %q", provider.Model())
	}
}

func TestBuilderCustomModel(t *testing.T) {
	provider, err := ProviderOpenAI.Model(ModelOpenAIGPT4oMini).APIKey("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Model() != ModelOpenAIGPT4oMini {
		t.Errorf("expected %q, got %q", ModelOpenAIGPT4oMini, provider.Model())
	}
}
