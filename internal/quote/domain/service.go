package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
)

type NewDocumentRequest struct {
	Protocol        string
	ClientName      string
	ClientReference string
	General         map[string]string
	Discounts       pricingdomain.DiscountSettings
}

// Service edits quote documents. Every path that changes a position
// recomputes its derived fields in full.
type Service interface {
	NewDocument(ctx context.Context, req NewDocumentRequest) (*Document, error)
	AddPosition(ctx context.Context, doc *Document, in PositionInput) (Line, error)
	UpdatePosition(ctx context.Context, doc *Document, id snowflake.ID, in PositionInput) (Line, error)
	DuplicatePosition(ctx context.Context, doc *Document, id snowflake.ID) (Line, error)
	DeletePosition(ctx context.Context, doc *Document, id snowflake.ID) error
	Renumber(ctx context.Context, doc *Document) error
	ApplyDiscounts(ctx context.Context, doc *Document, settings pricingdomain.DiscountSettings) error
	RecalculateAll(ctx context.Context, doc *Document) error
	Open(ctx context.Context, path string) (*Document, error)
	Save(ctx context.Context, doc *Document) (string, error)
}

// Repository persists documents.
type Repository interface {
	Save(ctx context.Context, doc *Document) (string, error)
	Load(ctx context.Context, path string) (*Document, error)
}
