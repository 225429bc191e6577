package config

import (
	"errors"
	"testing"
)

// validConfig returns a config that passes Validate() for the gemini
// provider (callers must set GEMINI_API_KEY via t.Setenv).
func validConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		ModelName:   "gemini-2.5-flash",
		Temperature: 0.7,
		MaxTokens:   2048,
		MaxTurns:    5,
		OllamaHost:  "http://localhost:11434",
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() = %v, want ErrConfigNil", err)
	}
}

func TestValidate_MissingGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	err := validConfig().Validate()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidate_Ranges(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "temperature too high",
			mutate:  func(c *Config) { c.Temperature = 2.5 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "temperature negative",
			mutate:  func(c *Config) { c.Temperature = -0.1 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "max tokens zero",
			mutate:  func(c *Config) { c.MaxTokens = 0 },
			wantErr: ErrInvalidMaxTokens,
		},
		{
			name:    "max turns zero",
			mutate:  func(c *Config) { c.MaxTurns = 0 },
			wantErr: ErrInvalidMaxTurns,
		},
		{
			name:    "max turns excessive",
			mutate:  func(c *Config) { c.MaxTurns = 100 },
			wantErr: ErrInvalidMaxTurns,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider = "mystery" },
			wantErr: ErrInvalidProvider,
		},
		{
			name: "stdio server missing command",
			mutate: func(c *Config) {
				c.Servers = map[string]Server{"fs": {Transport: TransportStdio}}
			},
			wantErr: ErrInvalidServer,
		},
		{
			name: "sse server missing url",
			mutate: func(c *Config) {
				c.Servers = map[string]Server{"search": {Transport: TransportSSE}}
			},
			wantErr: ErrInvalidServer,
		},
		{
			name: "unknown transport",
			mutate: func(c *Config) {
				c.Servers = map[string]Server{"x": {Transport: "carrier-pigeon", Command: "npx"}}
			},
			wantErr: ErrInvalidServer,
		},
		{
			name: "zero servers is valid",
			mutate: func(c *Config) {
				c.Servers = map[string]Server{}
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_OllamaHostScheme(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Provider = ProviderOllama
	cfg.OllamaHost = "localhost:11434"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidOllamaHost) {
		t.Errorf("Validate() = %v, want ErrInvalidOllamaHost", err)
	}
}

func TestValidateServe_CORSOrigins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := validConfig()
	cfg.CORSOrigins = []string{"http://localhost:4200", "not-an-origin"}

	if err := cfg.ValidateServe(); err == nil {
		t.Error("ValidateServe() = nil, want error for malformed origin")
	}

	cfg.CORSOrigins = []string{"https://ide.example.com", "*"}
	if err := cfg.ValidateServe(); err != nil {
		t.Errorf("ValidateServe() = %v, want nil", err)
	}
}
