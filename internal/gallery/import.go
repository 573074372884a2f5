package gallery

import (
	"context"
	"encoding/json"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"gorm.io/gorm"

	"prompt-gallery-go/internal/models"
)

//go:embed schema/prompt_import.schema.json
var importSchemaJSON []byte

var importSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(importSchemaJSON))
	if err != nil {
		panic(err)
	}
	return schema
}()

type importPrompt struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// Import bulk-inserts prompts from a JSON array validated against the
// embedded schema. Images stay optional here; rows imported without one
// keep a null image_url.
func (s *Service) Import(ctx context.Context, payload []byte) (int, error) {
	result, err := importSchema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return 0, &ValidationError{Detail: "payload is not valid JSON"}
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return 0, &ValidationError{Detail: strings.Join(details, "; ")}
	}

	var entries []importPrompt
	if err := json.Unmarshal(payload, &entries); err != nil {
		return 0, &ValidationError{Detail: "payload is not valid JSON"}
	}

	prompts := make([]models.Prompt, 0, len(entries))
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		description := strings.TrimSpace(e.Description)
		if title == "" {
			return 0, missingField("Title")
		}
		if description == "" {
			return 0, missingField("Description")
		}
		prompts = append(prompts, models.Prompt{
			Title:       title,
			Description: description,
			ImageURL:    e.ImageURL,
		})
	}
	if len(prompts) == 0 {
		return 0, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&prompts).Error
	})
	if err != nil {
		return 0, upstream("importing prompts", err)
	}
	return len(prompts), nil
}
