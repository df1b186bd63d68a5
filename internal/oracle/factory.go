package oracle

import (
	"fmt"

	"github.com/dgallion1/docqa/internal/config"
)

const (
	BackendHuggingFace = "huggingface"
	BackendClaude      = "claude"
)

// New builds the backend selected by cfg.OracleBackend.
func New(cfg config.Config) (Oracle, error) {
	switch cfg.OracleBackend {
	case BackendHuggingFace:
		return NewHuggingFaceClient(cfg.HFAPIToken, cfg.HFBaseURL, cfg.HFModel, cfg.OracleTimeout), nil
	case BackendClaude:
		c := NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.OracleTimeout)
		if cfg.AnthropicBaseURL != "" {
			c.WithBaseURL(cfg.AnthropicBaseURL)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown oracle backend %q", cfg.OracleBackend)
	}
}

// Close releases idle connections held by o, if it has any.
func Close(o Oracle) {
	if t, ok := o.(*Timed); ok {
		o = t.Oracle
	}
	if c, ok := o.(interface{ Close() }); ok {
		c.Close()
	}
}
