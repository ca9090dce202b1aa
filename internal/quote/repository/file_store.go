package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/quote/domain"
)

const fileExt = ".json"

// FileStore keeps one JSON file per document in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

func Provide(cfg config.Config) domain.Repository {
	return NewFileStore(cfg.Quote.Dir)
}

// FileName builds the document file name from its protocol number, client
// name and client reference, e.g. "n-124-rossi-srl-rif-villa-mare.json".
func FileName(doc *domain.Document) string {
	var parts []string
	if p := strings.TrimSpace(doc.Protocol); p != "" {
		parts = append(parts, "n "+p)
	}
	if c := strings.TrimSpace(doc.ClientName); c != "" {
		parts = append(parts, c)
	}
	if r := strings.TrimSpace(doc.ClientReference); r != "" {
		parts = append(parts, "rif "+r)
	}

	name := slug.Make(strings.Join(parts, " "))
	if name == "" {
		name = "preventivo"
		if doc.ID != uuid.Nil {
			name += "-" + doc.ID.String()
		}
	}
	return name + fileExt
}

// Save writes the document atomically and returns its path.
func (s *FileStore) Save(ctx context.Context, doc *domain.Document) (string, error) {
	if doc == nil {
		return "", domain.ErrDocumentRequired
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode quote: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create quote dir: %w", err)
	}

	path := filepath.Join(s.dir, FileName(doc))
	tmp, err := os.CreateTemp(s.dir, ".quote-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write quote: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write quote: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("write quote: %w", err)
	}
	return path, nil
}

// Load reads a document. Bare file names are resolved in the store
// directory.
func (s *FileStore) Load(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filepath.Base(path) == path {
		path = filepath.Join(s.dir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quote: %w", err)
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
