package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"zoorequest/internal/models"
	"zoorequest/internal/repositories"

	"github.com/google/uuid"
)

// Record date offset bounds, in days after the completion date. The offset
// is drawn fresh on every resolution.
const (
	recordOffsetMinDays = 1
	recordOffsetMaxDays = 30
)

// LifecycleService drives the request state machine:
// DRAFT -> FORMED -> {COMPLETED, REJECTED}, DRAFT -> DELETED.
// A failed precondition is reported as repositories.ErrNotFound, the same as
// a missing row.
type LifecycleService interface {
	AddCategoryToCart(ctx context.Context, caller *models.User, categoryID uuid.UUID) (uuid.UUID, error)
	UpdateDraft(ctx context.Context, caller *models.User, id uuid.UUID, upd models.AnimalUpdate) (*models.Animal, error)
	Form(ctx context.Context, id uuid.UUID) (*models.Animal, error)
	Resolve(ctx context.Context, moderator *models.User, id uuid.UUID, outcome string) (*models.Animal, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status *string, formedAfter, formedBefore *time.Time) ([]*models.Animal, error)
	GetFull(ctx context.Context, id uuid.UUID) (*models.AnimalDetail, error)
}

type lifecycleService struct {
	db         repositories.Database
	animalRepo repositories.AnimalRepository
	assocRepo  repositories.AnimalCategoryRepository
	catRepo    repositories.CategoryRepository
	now        func() time.Time
}

func NewLifecycleService(db repositories.Database, animalRepo repositories.AnimalRepository,
	assocRepo repositories.AnimalCategoryRepository, catRepo repositories.CategoryRepository) LifecycleService {
	return &lifecycleService{
		db:         db,
		animalRepo: animalRepo,
		assocRepo:  assocRepo,
		catRepo:    catRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AddCategoryToCart puts a category into the caller's cart, creating the
// cart draft when none exists. Acquisition and association run in one
// transaction; the partial unique index on open drafts keeps concurrent
// callers down to a single draft per creator.
func (s *lifecycleService) AddCategoryToCart(ctx context.Context, caller *models.User, categoryID uuid.UUID) (uuid.UUID, error) {
	if _, err := s.catRepo.GetActiveByID(ctx, categoryID); err != nil {
		return uuid.Nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	animalID, err := s.animalRepo.AcquireDraft(ctx, tx, caller.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.assocRepo.Upsert(ctx, tx, animalID, categoryID); err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return animalID, nil
}

func (s *lifecycleService) UpdateDraft(ctx context.Context, caller *models.User, id uuid.UUID, upd models.AnimalUpdate) (*models.Animal, error) {
	if err := s.animalRepo.UpdateDraft(ctx, id, caller.ID, upd); err != nil {
		return nil, err
	}
	return s.animalRepo.GetByID(ctx, id)
}

func (s *lifecycleService) Form(ctx context.Context, id uuid.UUID) (*models.Animal, error) {
	if err := s.animalRepo.Form(ctx, id); err != nil {
		return nil, err
	}
	return s.animalRepo.GetByID(ctx, id)
}

// Resolve closes a formed request. The outcome must be terminal; the record
// date lands a random 1 to 30 days after completion, so callers must not
// assume a fixed offset.
func (s *lifecycleService) Resolve(ctx context.Context, moderator *models.User, id uuid.UUID, outcome string) (*models.Animal, error) {
	status, err := models.NormalizeStatus(outcome)
	if err != nil || (status != models.StatusCompleted && status != models.StatusRejected) {
		return nil, fmt.Errorf("%w: status must be COMPLETED or REJECTED", repositories.ErrValidation)
	}

	completion := s.now()
	offset := rand.IntN(recordOffsetMaxDays-recordOffsetMinDays+1) + recordOffsetMinDays
	recordDate := completion.AddDate(0, 0, offset)

	if err := s.animalRepo.Resolve(ctx, id, status, moderator.ID, completion, recordDate); err != nil {
		return nil, err
	}
	return s.animalRepo.GetByID(ctx, id)
}

func (s *lifecycleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.animalRepo.MarkDeleted(ctx, id)
}

func (s *lifecycleService) List(ctx context.Context, status *string, formedAfter, formedBefore *time.Time) ([]*models.Animal, error) {
	filter := models.AnimalFilter{FormedAfter: formedAfter, FormedBefore: formedBefore}
	if status != nil {
		normalized, err := models.NormalizeStatus(*status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", repositories.ErrValidation, err)
		}
		filter.Status = &normalized
	}

	animals, err := s.animalRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if animals == nil {
		animals = []*models.Animal{}
	}
	return animals, nil
}

func (s *lifecycleService) GetFull(ctx context.Context, id uuid.UUID) (*models.AnimalDetail, error) {
	animal, err := s.animalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	categories, err := s.assocRepo.ListForAnimal(ctx, id)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.AssociatedCategory{}
	}
	return &models.AnimalDetail{Animal: *animal, Categories: categories}, nil
}
