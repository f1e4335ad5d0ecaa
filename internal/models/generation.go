// internal/models/generation.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Mode selects how a company is looked up and which result shape is produced.
type Mode string

const (
	ModeYCCompany Mode = "yc_company"
	ModeAnyURL    Mode = "any_url"
)

// ParseMode accepts the two supported modes and nothing else.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeYCCompany, ModeAnyURL:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unsupported mode %q", s)
	}
}

// Kind tags the stored variant of a GenerationResult.
type Kind string

const (
	KindCompany Kind = "company"
	KindVibes   Kind = "vibes"
)

var (
	ErrUnknownKind   = errors.New("UNKNOWN_RESULT_KIND")
	ErrEmptyResult   = errors.New("EMPTY_RESULT")
	ErrAmbiguousKind = errors.New("AMBIGUOUS_RESULT")
)

// CharacterAssignment is one founder's character in a company result.
type CharacterAssignment struct {
	FounderName       string `json:"founder_name"`
	CharacterName     string `json:"character_name"`
	CharacterImageRef string `json:"character_image_ref"`
	Commentary        string `json:"commentary"`
}

type CompanyResult struct {
	ID          string                `json:"id"`
	CompanyName string                `json:"company_name"`
	CompanyURL  string                `json:"company_url"`
	LogoRef     string                `json:"logo_ref"`
	Characters  []CharacterAssignment `json:"characters"`
}

// VibesResult assigns a single character to a whole site.
type VibesResult struct {
	ID                string `json:"id"`
	CompanyName       string `json:"company_name"`
	CharacterName     string `json:"character_name"`
	CharacterImageRef string `json:"character_image_ref"`
	Commentary        string `json:"commentary"`
}

// GenerationResult holds exactly one of Company or Vibes.
type GenerationResult struct {
	Mode      Mode
	CreatedAt time.Time
	Company   *CompanyResult
	Vibes     *VibesResult
}

func NewCompanyResult(r CompanyResult, mode Mode, createdAt time.Time) *GenerationResult {
	if r.Characters == nil {
		r.Characters = []CharacterAssignment{}
	}
	return &GenerationResult{Mode: mode, CreatedAt: createdAt.UTC(), Company: &r}
}

func NewVibesResult(r VibesResult, mode Mode, createdAt time.Time) *GenerationResult {
	return &GenerationResult{Mode: mode, CreatedAt: createdAt.UTC(), Vibes: &r}
}

func (g *GenerationResult) Kind() Kind {
	if g.Company != nil {
		return KindCompany
	}
	return KindVibes
}

func (g *GenerationResult) ID() string {
	switch {
	case g.Company != nil:
		return g.Company.ID
	case g.Vibes != nil:
		return g.Vibes.ID
	default:
		return ""
	}
}

func (g *GenerationResult) CompanyName() string {
	switch {
	case g.Company != nil:
		return g.Company.CompanyName
	case g.Vibes != nil:
		return g.Vibes.CompanyName
	default:
		return ""
	}
}

type envelope struct {
	Kind      Kind   `json:"kind"`
	Mode      Mode   `json:"mode,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type companyRecord struct {
	envelope
	CompanyResult
}

type vibesRecord struct {
	envelope
	VibesResult
}

// MarshalJSON writes the variant's fields flat, next to kind, mode and
// created_at. Company records always carry a characters array.
func (g GenerationResult) MarshalJSON() ([]byte, error) {
	env := envelope{Mode: g.Mode}
	if !g.CreatedAt.IsZero() {
		env.CreatedAt = g.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	switch {
	case g.Company != nil && g.Vibes != nil:
		return nil, ErrAmbiguousKind
	case g.Company != nil:
		env.Kind = KindCompany
		rec := companyRecord{envelope: env, CompanyResult: *g.Company}
		if rec.Characters == nil {
			rec.Characters = []CharacterAssignment{}
		}
		return json.Marshal(rec)
	case g.Vibes != nil:
		env.Kind = KindVibes
		return json.Marshal(vibesRecord{envelope: env, VibesResult: *g.Vibes})
	default:
		return nil, ErrEmptyResult
	}
}

// UnmarshalJSON trusts the kind tag when present. Untagged records are
// company results if they carry a characters key and vibes results otherwise.
func (g *GenerationResult) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	kind := env.Kind
	if kind == "" {
		if _, ok := probe["characters"]; ok {
			kind = KindCompany
		} else {
			kind = KindVibes
		}
	}

	out := GenerationResult{Mode: env.Mode}
	if env.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, env.CreatedAt)
		if err != nil {
			return fmt.Errorf("created_at: %w", err)
		}
		out.CreatedAt = ts
	}

	switch kind {
	case KindCompany:
		var c CompanyResult
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		if c.Characters == nil {
			c.Characters = []CharacterAssignment{}
		}
		out.Company = &c
	case KindVibes:
		var v VibesResult
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		out.Vibes = &v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	*g = out
	return nil
}
