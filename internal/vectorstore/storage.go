package vectorstore

import (
	"context"

	"chitravaani/internal/domain"
)

// Storage holds indexed record vectors and ranks them against a query vector.
// Search returns at most topK results ordered by descending score; records
// with equal scores keep their corpus order.
type Storage interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, records []domain.Record) error
	Search(ctx context.Context, vector []float64, topK int) ([]domain.Scored, error)
	Clear(ctx context.Context) error
}
