// Package generator assigns catalog characters to a company's founders (or
// to a whole site) and persists the result.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"character-workers/internal/catalog"
	"character-workers/internal/common/logger"
	"character-workers/internal/llm"
	"character-workers/internal/models"
	"character-workers/internal/schema"
	"character-workers/internal/store"
	"character-workers/internal/textutil"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxPageRunes = 12000

var (
	ErrInvalidRequest     = errors.New("INVALID_REQUEST")
	ErrExtractionFailed   = errors.New("EXTRACTION_FAILED")
	ErrModelOutputInvalid = errors.New("MODEL_OUTPUT_INVALID")
)

// SiteExtractor supplies site data. A nil record or empty text means the
// site yielded nothing usable.
type SiteExtractor interface {
	ExtractYC(ctx context.Context, url string) (*models.YCCompanyRecord, error)
	ExtractGeneric(ctx context.Context, url string) (string, error)
}

// Inferencer runs one schema-constrained model call.
type Inferencer interface {
	Infer(ctx context.Context, req llm.Request) (json.RawMessage, error)
}

type Config struct {
	MaxPageRunes int
}

// Generator owns no mutable state besides what it writes to the store.
type Generator struct {
	catalog   *catalog.Catalog
	schemas   map[models.Mode]*schema.OutputSchema
	extractor SiteExtractor
	model     Inferencer
	store     store.Store
	config    Config
	logger    logger.Logger

	newID func() string
	now   func() time.Time
}

// New builds both output schemas up front so an empty catalog fails at
// startup.
func New(cat *catalog.Catalog, ext SiteExtractor, model Inferencer, st store.Store, cfg Config, log logger.Logger) (*Generator, error) {
	if cfg.MaxPageRunes <= 0 {
		cfg.MaxPageRunes = DefaultMaxPageRunes
	}

	schemas := make(map[models.Mode]*schema.OutputSchema, 2)
	for _, mode := range []models.Mode{models.ModeYCCompany, models.ModeAnyURL} {
		s, err := schema.Build(cat, mode)
		if err != nil {
			return nil, err
		}
		schemas[mode] = s
	}

	return &Generator{
		catalog:   cat,
		schemas:   schemas,
		extractor: ext,
		model:     model,
		store:     st,
		config:    cfg,
		logger:    log.With(map[string]interface{}{"component": "generator"}),
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}, nil
}

// Generate runs one generation and stores it under a fresh id. Nothing is
// stored when any step fails.
func (g *Generator) Generate(ctx context.Context, url string, mode models.Mode) (*models.GenerationResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}

	var (
		result *models.GenerationResult
		err    error
	)
	switch mode {
	case models.ModeYCCompany:
		result, err = g.generateCompany(ctx, url)
	case models.ModeAnyURL:
		result, err = g.generateVibes(ctx, url)
	default:
		return nil, fmt.Errorf("%w: unsupported mode %q", ErrInvalidRequest, mode)
	}
	if err != nil {
		return nil, err
	}

	if err := g.store.Put(ctx, result.ID(), result); err != nil {
		return nil, err
	}

	g.logger.Info("generation stored", map[string]interface{}{
		"generationId": result.ID(),
		"mode":         string(mode),
		"company":      result.CompanyName(),
	})
	return result, nil
}

// Get returns a stored generation or store.ErrNotFound.
func (g *Generator) Get(ctx context.Context, id string) (*models.GenerationResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: generation id is required", ErrInvalidRequest)
	}
	return g.store.Get(ctx, id)
}

func (g *Generator) generateCompany(ctx context.Context, url string) (*models.GenerationResult, error) {
	s := g.schemas[models.ModeYCCompany]

	var (
		record      *models.YCCompanyRecord
		raw         json.RawMessage
		extractErr  error
		modelErr    error
		modelFailed atomic.Bool
		collateral  bool
	)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rec, err := g.extractor.ExtractYC(gCtx, url)
		switch {
		case err != nil:
			extractErr = err
			collateral = modelFailed.Load() && errors.Is(err, context.Canceled)
		case rec == nil:
			extractErr = errors.New("no company record")
		default:
			record = rec
		}
		return extractErr
	})
	eg.Go(func() error {
		raw, modelErr = g.model.Infer(gCtx, llm.Request{
			System:     systemPrompt,
			Prompt:     companyPrompt(url),
			SchemaName: s.Name(),
			Schema:     s.Definition(),
			WebSearch:  true,
		})
		if modelErr != nil {
			modelFailed.Store(true)
		}
		return modelErr
	})
	_ = eg.Wait()

	// collateral marks an extraction that failed only because the model call
	// had already failed and cancelled the group. Any other extraction error
	// wins.
	if extractErr != nil && !collateral {
		return nil, fmt.Errorf("%w: %s: %v", ErrExtractionFailed, url, extractErr)
	}
	if modelErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelOutputInvalid, modelErr)
	}

	out, err := s.DecodeFounders(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelOutputInvalid, err)
	}

	characters := make([]models.CharacterAssignment, 0, len(out.Characters))
	for _, a := range out.Characters {
		ref, err := g.resolve(a.CharacterName)
		if err != nil {
			return nil, err
		}
		characters = append(characters, models.CharacterAssignment{
			FounderName:       canonicalFounder(textutil.StripMarkers(a.FounderName), record.Founders),
			CharacterName:     a.CharacterName,
			CharacterImageRef: ref,
			Commentary:        textutil.StripMarkers(a.Commentary),
		})
	}

	return models.NewCompanyResult(models.CompanyResult{
		ID:          g.newID(),
		CompanyName: record.CompanyName,
		CompanyURL:  url,
		LogoRef:     record.LogoRef,
		Characters:  characters,
	}, models.ModeYCCompany, g.now()), nil
}

func (g *Generator) generateVibes(ctx context.Context, url string) (*models.GenerationResult, error) {
	s := g.schemas[models.ModeAnyURL]

	text, err := g.extractor.ExtractGeneric(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExtractionFailed, url, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: %s: page has no text", ErrExtractionFailed, url)
	}

	raw, err := g.model.Infer(ctx, llm.Request{
		System:     systemPrompt,
		Prompt:     vibesPrompt(url, truncateRunes(text, g.config.MaxPageRunes)),
		SchemaName: s.Name(),
		Schema:     s.Definition(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelOutputInvalid, err)
	}

	out, err := s.DecodeSubject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelOutputInvalid, err)
	}

	ref, err := g.resolve(out.CharacterName)
	if err != nil {
		return nil, err
	}

	return models.NewVibesResult(models.VibesResult{
		ID:                g.newID(),
		CompanyName:       textutil.StripMarkers(out.SubjectName),
		CharacterName:     out.CharacterName,
		CharacterImageRef: ref,
		Commentary:        textutil.StripMarkers(out.Commentary),
	}, models.ModeAnyURL, g.now()), nil
}

// resolve maps a schema-validated name to its image. A miss here means the
// schema and catalog disagree.
func (g *Generator) resolve(name string) (string, error) {
	ref, err := g.catalog.ImageRefFor(name)
	if err != nil {
		g.logger.Error("model returned a character outside the catalog", map[string]interface{}{
			"character": name,
			"defect":    true,
		})
		return "", fmt.Errorf("%w: %v", ErrModelOutputInvalid, err)
	}
	return ref, nil
}

// canonicalFounder swaps a model-reported founder name for the scraped
// spelling when both name the same person. Unmatched names pass through.
func canonicalFounder(name string, facts []models.FounderFact) string {
	key := foldName(name)
	for _, f := range facts {
		if key != "" && foldName(f.Name) == key {
			return strings.TrimSpace(f.Name)
		}
	}
	return name
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
