// Package render exports quote documents as PDF and XLSX.
package render

import (
	"context"
	"io"

	quotedomain "github.com/ifgsrl/gestionale/internal/quote/domain"
)

type Provider interface {
	PDF(ctx context.Context, doc *quotedomain.Document) (io.Reader, error)
	Workbook(ctx context.Context, doc *quotedomain.Document) (io.Reader, error)
}

type Renderer struct{}

func New() Provider {
	return &Renderer{}
}
