package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/ifgsrl/gestionale/internal/clock"
	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/observability/logger"
	"github.com/ifgsrl/gestionale/internal/pricing"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
	quotedomain "github.com/ifgsrl/gestionale/internal/quote/domain"
	"github.com/ifgsrl/gestionale/internal/quotemetrics"
	"github.com/ifgsrl/gestionale/internal/reftable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Pricing paths, used as metric labels.
const (
	pathInsert      = "insert"
	pathEdit        = "edit"
	pathDuplicate   = "duplicate"
	pathDiscounts   = "discounts"
	pathRecalculate = "recalculate"
	pathOpen        = "open"
)

var tracer = otel.Tracer("gestionale/quote")

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Holder   *reftable.Holder
	Defaults *config.DefaultsHolder
	Repo     quotedomain.Repository
	Recorder quotemetrics.Recorder `optional:"true"`
	GenID    *snowflake.Node
	Clock    clock.Clock
}

type Service struct {
	log      *zap.Logger
	holder   *reftable.Holder
	defaults *config.DefaultsHolder
	repo     quotedomain.Repository
	recorder quotemetrics.Recorder
	genID    *snowflake.Node
	clock    clock.Clock
}

func NewService(p ServiceParam) quotedomain.Service {
	recorder := p.Recorder
	if recorder == nil {
		recorder = quotemetrics.Noop()
	}
	return &Service{
		log:      p.Log.Named("quote.service"),
		holder:   p.Holder,
		defaults: p.Defaults,
		repo:     p.Repo,
		recorder: recorder,
		genID:    p.GenID,
		clock:    p.Clock,
	}
}

func (s *Service) NewDocument(ctx context.Context, req quotedomain.NewDocumentRequest) (*quotedomain.Document, error) {
	_, span := tracer.Start(ctx, "quote.NewDocument")
	defer span.End()

	now := s.clock.Now()
	doc := &quotedomain.Document{
		ID:              uuid.New(),
		Protocol:        req.Protocol,
		ClientName:      req.ClientName,
		ClientReference: req.ClientReference,
		General:         req.General,
		Discounts:       req.Discounts,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	span.SetAttributes(attribute.String("quote.id", doc.ID.String()))
	return doc, nil
}

// AddPosition is the insert path: blank optional fields take the current
// operator defaults and the new line goes at the end.
func (s *Service) AddPosition(ctx context.Context, doc *quotedomain.Document, in quotedomain.PositionInput) (quotedomain.Line, error) {
	ctx, span := s.start(ctx, "quote.AddPosition", doc)
	defer span.End()

	if doc == nil {
		return quotedomain.Line{}, fail(span, quotedomain.ErrDocumentRequired)
	}

	p, issues, err := in.WithDefaults(s.defaults.Get()).Position()
	if err != nil {
		return quotedomain.Line{}, fail(span, err)
	}

	line := quotedomain.Line{ID: s.genID.Generate(), Position: p}
	s.price(ctx, pathInsert, doc, &line, issues)

	doc.Lines = append(doc.Lines, line)
	doc.Renumber()
	s.touch(doc)
	return doc.Lines[len(doc.Lines)-1], nil
}

// UpdatePosition is the edit path. The line keeps its id and number.
func (s *Service) UpdatePosition(ctx context.Context, doc *quotedomain.Document, id snowflake.ID, in quotedomain.PositionInput) (quotedomain.Line, error) {
	ctx, span := s.start(ctx, "quote.UpdatePosition", doc)
	defer span.End()

	i, err := s.index(doc, id)
	if err != nil {
		return quotedomain.Line{}, fail(span, err)
	}

	p, issues, err := in.Position()
	if err != nil {
		return quotedomain.Line{}, fail(span, err)
	}

	line := doc.Lines[i]
	line.Position = p
	s.price(ctx, pathEdit, doc, &line, issues)

	doc.Lines[i] = line
	s.touch(doc)
	return line, nil
}

// DuplicatePosition inserts a copy right after its source.
func (s *Service) DuplicatePosition(ctx context.Context, doc *quotedomain.Document, id snowflake.ID) (quotedomain.Line, error) {
	ctx, span := s.start(ctx, "quote.DuplicatePosition", doc)
	defer span.End()

	i, err := s.index(doc, id)
	if err != nil {
		return quotedomain.Line{}, fail(span, err)
	}

	line := quotedomain.Line{ID: s.genID.Generate(), Position: doc.Lines[i].Position}
	s.price(ctx, pathDuplicate, doc, &line, nil)

	doc.Lines = append(doc.Lines, quotedomain.Line{})
	copy(doc.Lines[i+2:], doc.Lines[i+1:])
	doc.Lines[i+1] = line
	doc.Renumber()
	s.touch(doc)
	return doc.Lines[i+1], nil
}

func (s *Service) DeletePosition(ctx context.Context, doc *quotedomain.Document, id snowflake.ID) error {
	_, span := s.start(ctx, "quote.DeletePosition", doc)
	defer span.End()

	i, err := s.index(doc, id)
	if err != nil {
		return fail(span, err)
	}

	doc.Lines = append(doc.Lines[:i], doc.Lines[i+1:]...)
	doc.Renumber()
	s.touch(doc)
	return nil
}

func (s *Service) Renumber(ctx context.Context, doc *quotedomain.Document) error {
	_, span := s.start(ctx, "quote.Renumber", doc)
	defer span.End()

	if doc == nil {
		return fail(span, quotedomain.ErrDocumentRequired)
	}
	doc.Renumber()
	return nil
}

// ApplyDiscounts replaces the discount settings and reprices every line.
func (s *Service) ApplyDiscounts(ctx context.Context, doc *quotedomain.Document, settings pricingdomain.DiscountSettings) error {
	ctx, span := s.start(ctx, "quote.ApplyDiscounts", doc)
	defer span.End()

	if doc == nil {
		return fail(span, quotedomain.ErrDocumentRequired)
	}
	doc.Discounts = settings
	s.repriceAll(ctx, pathDiscounts, doc)
	s.touch(doc)
	return nil
}

// RecalculateAll reprices every line against the current reference tables.
func (s *Service) RecalculateAll(ctx context.Context, doc *quotedomain.Document) error {
	ctx, span := s.start(ctx, "quote.RecalculateAll", doc)
	defer span.End()

	if doc == nil {
		return fail(span, quotedomain.ErrDocumentRequired)
	}
	s.repriceAll(ctx, pathRecalculate, doc)
	s.touch(doc)
	return nil
}

// Open loads a document, assigns session ids to its lines and reprices
// them.
func (s *Service) Open(ctx context.Context, path string) (*quotedomain.Document, error) {
	ctx, span := tracer.Start(ctx, "quote.Open")
	defer span.End()
	span.SetAttributes(attribute.String("quote.path", path))

	doc, err := s.repo.Load(ctx, path)
	if err != nil {
		return nil, fail(span, err)
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	for i := range doc.Lines {
		doc.Lines[i].ID = s.genID.Generate()
	}
	doc.Renumber()
	s.repriceAll(ctx, pathOpen, doc)

	logger.WithQuote(logger.WithContext(ctx, s.log), doc.ID.String(), doc.Protocol).
		Info("quote opened", zap.String("path", path), zap.Int("positions", len(doc.Lines)))
	return doc, nil
}

func (s *Service) Save(ctx context.Context, doc *quotedomain.Document) (string, error) {
	ctx, span := s.start(ctx, "quote.Save", doc)
	defer span.End()

	if doc == nil {
		return "", fail(span, quotedomain.ErrDocumentRequired)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.clock.Now()
	}
	path, err := s.repo.Save(ctx, doc)
	if err != nil {
		return "", fail(span, err)
	}

	logger.WithQuote(logger.WithContext(ctx, s.log), doc.ID.String(), doc.Protocol).
		Info("quote saved", zap.String("path", path))
	return path, nil
}

func (s *Service) repriceAll(ctx context.Context, path string, doc *quotedomain.Document) {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		var inputIssues []pricingdomain.Issue
		for _, issue := range line.Issues {
			if isInputIssue(issue) {
				inputIssues = append(inputIssues, issue)
			}
		}
		s.price(ctx, path, doc, line, inputIssues)
	}
}

// price recomputes the derived fields of line in full and reports its
// issues.
func (s *Service) price(ctx context.Context, path string, doc *quotedomain.Document, line *quotedomain.Line, inputIssues []pricingdomain.Issue) {
	derived, issues := pricing.Compute(line.Position, s.holder.Store(), doc.Discounts)
	line.Derived = derived
	line.Issues = append(append([]pricingdomain.Issue(nil), inputIssues...), issues...)

	s.recorder.PositionPriced(path)
	if len(line.Issues) == 0 {
		return
	}

	log := logger.WithQuote(logger.WithContext(ctx, s.log), doc.ID.String(), doc.Protocol)
	for _, issue := range line.Issues {
		switch issue.Kind {
		case pricingdomain.IssueMissingReference:
			s.recorder.ReferenceMiss(string(issue.Table))
		case pricingdomain.IssueMalformedNumeric:
			s.recorder.MalformedNumeric(issue.Field)
		}
		log.Warn("position priced with issues",
			zap.String("path", path),
			zap.Int("position", line.Number),
			zap.String("kind", string(issue.Kind)),
			zap.String("table", string(issue.Table)),
			zap.String("key", issue.Key),
			zap.String("field", issue.Field),
			zap.String("reason", issue.Message),
		)
	}
}

func (s *Service) index(doc *quotedomain.Document, id snowflake.ID) (int, error) {
	if doc == nil {
		return -1, quotedomain.ErrDocumentRequired
	}
	i, err := doc.Index(id)
	if err != nil {
		return -1, fmt.Errorf("position %s: %w", id, err)
	}
	return i, nil
}

func (s *Service) touch(doc *quotedomain.Document) {
	doc.UpdatedAt = s.clock.Now()
}

func (s *Service) start(ctx context.Context, name string, doc *quotedomain.Document) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	if doc != nil {
		span.SetAttributes(
			attribute.String("quote.id", doc.ID.String()),
			attribute.Int("quote.positions", len(doc.Lines)),
		)
	}
	return ctx, span
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// isInputIssue reports issues raised while reading the operator input,
// which repricing cannot reproduce.
func isInputIssue(issue pricingdomain.Issue) bool {
	if issue.Kind == pricingdomain.IssueInvalidPosition {
		return true
	}
	if issue.Kind != pricingdomain.IssueMalformedNumeric || issue.Table != "" {
		return false
	}
	switch issue.Field {
	case pricing.ColWidth, pricing.ColHeight, pricing.ColSpacerWidth, pricing.ColSpacerHeight:
		return true
	}
	return false
}
