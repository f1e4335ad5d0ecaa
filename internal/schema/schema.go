// Package schema derives the structured-output contract the model must
// follow from the character catalog.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"character-workers/internal/catalog"
	"character-workers/internal/models"

	"github.com/revrost/go-openrouter/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrEmptyCatalog    = errors.New("EMPTY_CATALOG")
	ErrSchemaViolation = errors.New("SCHEMA_VIOLATION")
	ErrUnsupportedMode = errors.New("UNSUPPORTED_MODE")
)

// OutputSchema is a JSON schema bound to one generation mode.
type OutputSchema struct {
	name       string
	mode       models.Mode
	definition jsonschema.Definition
	loader     gojsonschema.JSONLoader
}

// FounderAssignments is the yc_company model output.
type FounderAssignments struct {
	Characters []FounderAssignment `json:"characters"`
}

type FounderAssignment struct {
	FounderName   string `json:"founder_name"`
	CharacterName string `json:"character_name"`
	Commentary    string `json:"commentary"`
}

// SubjectAssignment is the any_url model output.
type SubjectAssignment struct {
	SubjectName   string `json:"subject_name"`
	CharacterName string `json:"character_name"`
	Commentary    string `json:"commentary"`
}

// Build snapshots the catalog's names into a closed enum and returns the
// schema for mode.
func Build(c *catalog.Catalog, mode models.Mode) (*OutputSchema, error) {
	if c == nil || c.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	characterName := jsonschema.Definition{
		Type:        jsonschema.String,
		Description: "Exactly one name from the character list",
		Enum:        c.Names(),
	}
	commentary := jsonschema.Definition{
		Type:        jsonschema.String,
		Description: "Short funny and spicy reasoning that does not mention the character name",
	}

	var (
		def  jsonschema.Definition
		name string
	)
	switch mode {
	case models.ModeYCCompany:
		name = "company_characters"
		def = closedObject(map[string]jsonschema.Definition{
			"characters": {
				Type:        jsonschema.Array,
				Description: "One entry per founder",
				Items: ptr(closedObject(map[string]jsonschema.Definition{
					"founder_name":   {Type: jsonschema.String, Description: "Founder full name"},
					"character_name": characterName,
					"commentary":     commentary,
				}, "founder_name", "character_name", "commentary")),
			},
		}, "characters")
	case models.ModeAnyURL:
		name = "company_vibes"
		def = closedObject(map[string]jsonschema.Definition{
			"subject_name":   {Type: jsonschema.String, Description: "Company or site name"},
			"character_name": characterName,
			"commentary":     commentary,
		}, "subject_name", "character_name", "commentary")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	return &OutputSchema{
		name:       name,
		mode:       mode,
		definition: def,
		loader:     gojsonschema.NewGoLoader(&def),
	}, nil
}

func closedObject(props map[string]jsonschema.Definition, required ...string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}

func ptr(d jsonschema.Definition) *jsonschema.Definition { return &d }

func (s *OutputSchema) Name() string      { return s.name }
func (s *OutputSchema) Mode() models.Mode { return s.mode }

// Definition returns the schema in the inference provider's type.
func (s *OutputSchema) Definition() *jsonschema.Definition {
	d := s.definition
	return &d
}

// MarshalJSON renders the schema document.
func (s *OutputSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Definition())
}

// Validate checks raw model output against the schema.
func (s *OutputSchema) Validate(raw []byte) error {
	result, err := gojsonschema.Validate(s.loader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(errs, "; "))
	}

	return nil
}

// DecodeFounders validates raw and decodes the yc_company shape.
func (s *OutputSchema) DecodeFounders(raw []byte) (*FounderAssignments, error) {
	if s.mode != models.ModeYCCompany {
		return nil, fmt.Errorf("%w: %s schema cannot decode founder assignments", ErrUnsupportedMode, s.mode)
	}
	if err := s.Validate(raw); err != nil {
		return nil, err
	}
	var out FounderAssignments
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return &out, nil
}

// DecodeSubject validates raw and decodes the any_url shape.
func (s *OutputSchema) DecodeSubject(raw []byte) (*SubjectAssignment, error) {
	if s.mode != models.ModeAnyURL {
		return nil, fmt.Errorf("%w: %s schema cannot decode a subject assignment", ErrUnsupportedMode, s.mode)
	}
	if err := s.Validate(raw); err != nil {
		return nil, err
	}
	var out SubjectAssignment
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return &out, nil
}
