package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"zoorequest/internal/models"
	"zoorequest/internal/repositories"

	"github.com/google/uuid"
)

// CategoryListing is the catalog response: matching categories plus the
// caller's open cart, when one exists.
type CategoryListing struct {
	Categories  []*models.Category `json:"categories"`
	AnimalID    *uuid.UUID         `json:"animal_id"`
	ItemsInCart int                `json:"items_in_cart"`
}

type CatalogService interface {
	List(ctx context.Context, titlePrefix string, caller *models.User) (*CategoryListing, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, title string, measurement, description *string) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error)
	AttachPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, reader io.Reader, size int64) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categoryRepo repositories.CategoryRepository
	animalRepo   repositories.AnimalRepository
	assocRepo    repositories.AnimalCategoryRepository
	blobs        BlobStore
	bucket       string
}

func NewCatalogService(categoryRepo repositories.CategoryRepository, animalRepo repositories.AnimalRepository,
	assocRepo repositories.AnimalCategoryRepository, blobs BlobStore, bucket string) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		animalRepo:   animalRepo,
		assocRepo:    assocRepo,
		blobs:        blobs,
		bucket:       bucket,
	}
}

func (s *catalogService) List(ctx context.Context, titlePrefix string, caller *models.User) (*CategoryListing, error) {
	categories, err := s.categoryRepo.ListActive(ctx, titlePrefix)
	if err != nil {
		return nil, err
	}

	listing := &CategoryListing{Categories: categories}
	if listing.Categories == nil {
		listing.Categories = []*models.Category{}
	}
	if caller == nil {
		return listing, nil
	}

	draftID, err := s.animalRepo.FindDraftID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if draftID != nil {
		count, err := s.assocRepo.CountForAnimal(ctx, *draftID)
		if err != nil {
			return nil, err
		}
		listing.AnimalID = draftID
		listing.ItemsInCart = count
	}
	return listing, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *catalogService) Create(ctx context.Context, title string, measurement, description *string) (*models.Category, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", repositories.ErrValidation)
	}
	category := &models.Category{
		ID:          uuid.New(),
		Title:       title,
		IsActive:    true,
		Measurement: measurement,
		Description: description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, category.ID)
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	if upd.Title != nil && *upd.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", repositories.ErrValidation)
	}
	return s.categoryRepo.Update(ctx, id, upd)
}

// AttachPhoto uploads the blob under a key derived from the category id and
// the file's extension, then stores the resulting locator on the row. An
// upload failure leaves the row untouched.
func (s *catalogService) AttachPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, reader io.Reader, size int64) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	object := id.String() + filepath.Ext(filename)
	if err := s.blobs.Upload(ctx, s.bucket, object, contentType, reader, size); err != nil {
		return fmt.Errorf("upload photo: %w", err)
	}
	return s.categoryRepo.SetPhoto(ctx, id, s.blobs.ObjectURL(s.bucket, object))
}

// SoftDelete removes the photo blob first; only when that succeeds does the
// category get deactivated and its reference cleared. A blob failure aborts
// the whole operation with the row unchanged.
func (s *catalogService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if category.Photo != nil && *category.Photo != "" {
		object := id.String() + filepath.Ext(*category.Photo)
		if err := s.blobs.Remove(ctx, s.bucket, object); err != nil {
			return fmt.Errorf("delete photo: %w", err)
		}
	}
	return s.categoryRepo.Deactivate(ctx, id)
}
