package agent

import (
	"strings"
	"testing"

	"github.com/firebase/genkit/go/genkit"

	"github.com/coda0/coda/internal/log"
)

// TestConfig_validate tests that each validation check fires independently.
// Each case provides enough deps to pass prior checks.
func TestConfig_validate(t *testing.T) {
	t.Parallel()

	// Minimal non-nil stub — validate() only checks nil, never dereferences.
	stubG := new(genkit.Genkit)

	tests := []struct {
		name        string
		cfg         Config
		errContains string
	}{
		{
			name:        "nil genkit",
			cfg:         Config{},
			errContains: "genkit instance is required",
		},
		{
			name: "nil logger",
			cfg: Config{
				Genkit: stubG,
			},
			errContains: "logger is required",
		},
		{
			name: "empty model name",
			cfg: Config{
				Genkit: stubG,
				Logger: log.NewNop(),
			},
			errContains: "model name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.validate()
			if err == nil {
				t.Fatal("validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("validate() error = %q, want to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	a, err := New(Config{
		Genkit:    new(genkit.Genkit),
		Logger:    log.NewNop(),
		ModelName: "ollama/qwen2.5-coder",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.maxTurns != defaultMaxTurns {
		t.Errorf("maxTurns = %d, want default %d", a.maxTurns, defaultMaxTurns)
	}
	if a.genConfig != nil {
		t.Error("genConfig should be nil for non-Google providers")
	}
	if len(a.toolRefs) != 0 {
		t.Errorf("toolRefs = %d, want 0 for tool-less agent", len(a.toolRefs))
	}
}

func TestNew_GoogleGenerationConfig(t *testing.T) {
	t.Parallel()

	a, err := New(Config{
		Genkit:      new(genkit.Genkit),
		Logger:      log.NewNop(),
		ModelName:   "googleai/gemini-2.5-flash",
		Temperature: 0.2,
		MaxTokens:   1024,
		MaxTurns:    3,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.genConfig == nil {
		t.Fatal("genConfig should be set for googleai models")
	}
	if a.genConfig.Temperature == nil || *a.genConfig.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", a.genConfig.Temperature)
	}
	if a.genConfig.MaxOutputTokens != 1024 {
		t.Errorf("MaxOutputTokens = %d, want 1024", a.genConfig.MaxOutputTokens)
	}
	if a.maxTurns != 3 {
		t.Errorf("maxTurns = %d, want 3", a.maxTurns)
	}
}
