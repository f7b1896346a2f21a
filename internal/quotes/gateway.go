package quotes

import (
	"context"

	"github.com/trogers1052/portfolio-service/internal/models"
)

// Gateway fetches normalized quotes for a set of symbols. Implementors
// must return either a batch covering the symbols the upstream knows
// about, or an error; callers own the fallback behavior.
type Gateway interface {
	FetchQuotes(ctx context.Context, symbols []string) (*models.QuoteBatch, error)
}

// ProviderError indicates the quote provider was unreachable or
// returned a malformed response.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return "quote provider: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
