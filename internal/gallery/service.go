package gallery

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"prompt-gallery-go/internal/imageproc"
	"prompt-gallery-go/internal/models"
	"prompt-gallery-go/internal/storage"
)

// Service orchestrates prompt CRUD across the database row and its image
// object. A row and its object are never written in one transaction; on a
// failed row write the uploaded object is removed best-effort, and failed
// removals are logged, not retried.
type Service struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewService(db *gorm.DB, store storage.ObjectStore) *Service {
	return &Service{db: db, store: store}
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// List returns prompts ordered newest-first. page and limit of zero (or
// less) mean "all rows" as a single page.
func (s *Service) List(ctx context.Context, page, limit int) ([]models.Prompt, Pagination, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Prompt{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, upstream("counting prompts", err)
	}

	q := s.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * limit).Limit(limit)
	}

	prompts := []models.Prompt{}
	if err := q.Find(&prompts).Error; err != nil {
		return nil, Pagination{}, upstream("listing prompts", err)
	}

	if limit <= 0 {
		return prompts, Pagination{
			Page:       1,
			Limit:      int(total),
			Total:      total,
			TotalPages: 1,
			HasMore:    false,
		}, nil
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return prompts, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Prompt, error) {
	var p models.Prompt
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, upstream("fetching prompt", err)
	}
	return &p, nil
}

// Create validates, processes and uploads the image, then inserts the row.
// The uploaded object is removed when the insert fails.
func (s *Service) Create(ctx context.Context, title, description string, image io.Reader) (*models.Prompt, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title == "":
		return nil, missingField("Title")
	case description == "":
		return nil, missingField("Description")
	case image == nil:
		return nil, missingField("Image")
	}

	data, err := imageproc.Process(image)
	if err != nil {
		return nil, &ValidationError{Detail: "Image could not be processed: " + err.Error()}
	}

	name := storage.NewObjectName()
	if err := s.store.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		return nil, upstream("uploading image", err)
	}

	url := s.store.PublicURL(name)
	p := &models.Prompt{Title: title, Description: description, ImageURL: &url}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if rmErr := s.store.Remove(ctx, name); rmErr != nil {
			slog.Error("removing orphaned image object", "object", name, "error", rmErr)
		}
		return nil, upstream("inserting prompt", err)
	}
	return p, nil
}

// Update edits title and description; a non-nil image replaces the stored
// object under a new name and the previous object is removed best-effort
// after the row write succeeds.
func (s *Service) Update(ctx context.Context, id, title, description string, image io.Reader, currentImageURL string) (*models.Prompt, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title == "":
		return nil, missingField("Title")
	case description == "":
		return nil, missingField("Description")
	}

	var p models.Prompt
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, upstream("fetching prompt", err)
	}

	prevURL := currentImageURL
	if prevURL == "" && p.ImageURL != nil {
		prevURL = *p.ImageURL
	}

	newName := ""
	if image != nil {
		data, err := imageproc.Process(image)
		if err != nil {
			return nil, &ValidationError{Detail: "Image could not be processed: " + err.Error()}
		}
		newName = storage.NewObjectName()
		if err := s.store.Upload(ctx, newName, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
			return nil, upstream("uploading image", err)
		}
		url := s.store.PublicURL(newName)
		p.ImageURL = &url
	}

	p.Title = title
	p.Description = description
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		if newName != "" {
			if rmErr := s.store.Remove(ctx, newName); rmErr != nil {
				slog.Error("removing orphaned image object", "object", newName, "error", rmErr)
			}
		}
		return nil, upstream("updating prompt", err)
	}

	if newName != "" && prevURL != "" {
		if old := storage.ObjectNameFromURL(prevURL); old != "" {
			if err := s.store.Remove(ctx, old); err != nil {
				slog.Warn("removing replaced image object", "object", old, "error", err)
			}
		}
	}
	return &p, nil
}

// Delete removes the image object best-effort, then the row. A missing row
// is a no-op success so deletes stay idempotent.
func (s *Service) Delete(ctx context.Context, id string) error {
	var p models.Prompt
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return upstream("fetching prompt for deletion", err)
	}

	if p.ImageURL != nil {
		if name := storage.ObjectNameFromURL(*p.ImageURL); name != "" {
			if err := s.store.Remove(ctx, name); err != nil {
				slog.Warn("removing image object", "object", name, "error", err)
			}
		}
	}

	if err := s.db.WithContext(ctx).Delete(&p).Error; err != nil {
		return upstream("deleting prompt", err)
	}
	return nil
}
