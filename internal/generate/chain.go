package generate

import (
	"context"
	"errors"
	"log/slog"
)

// Chain tries providers strictly in order and falls back to the rule-based
// generator when none yields acceptable text.
type Chain struct {
	providers []Provider
	fallback  *RuleBased
}

// NewChain builds a chain over the given providers. Order matters: the first
// provider producing acceptable output wins.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers, fallback: &RuleBased{}}
}

// Generate walks the chain. The error is non-nil only when even the
// rule-based fallback cannot produce output (no diff to classify).
func (c *Chain) Generate(ctx context.Context, req Request) (*Result, error) {
	for _, p := range c.providers {
		if !p.Available() {
			slog.Debug("Provider not configured, skipping", "provider", p.Name())
			continue
		}

		slog.Info("Generating text", "provider", p.Name(), "kind", string(req.Kind))
		text, err := p.Generate(ctx, req)
		if err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				slog.Warn("Provider unusable due to authentication, trying next", "provider", p.Name(), "error", err)
			} else {
				slog.Warn("Provider failed, trying next", "provider", p.Name(), "error", err)
			}
			continue
		}

		if req.Kind == KindTicketComment {
			text = CleanComment(text)
		}

		if !accepted(req.Kind, text) {
			slog.Warn("Provider output rejected as too short", "provider", p.Name(), "length", len(text))
			continue
		}

		return &Result{Text: text, Provider: p.Name(), Success: true}, nil
	}

	slog.Info("All providers exhausted, using rule-based generator")
	text, err := c.fallback.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Result{Text: text, Provider: c.fallback.Name(), Success: true}, nil
}
