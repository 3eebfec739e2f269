package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// CategoryReader is the only category access the ledger needs: ownership checks.
type CategoryReader interface {
	// FindCategoryByID retrieves a category regardless of owner.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
}

// CategoryWriter persists categories.
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepositoryFacade combines category reads and writes.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
