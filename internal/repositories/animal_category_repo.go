package repositories

import (
	"context"
	"errors"

	"zoorequest/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AnimalCategoryRepository owns the m2m join between requests and
// categories. The (animal_id, category_id) pair is unique; Upsert leans on
// that constraint so a concurrent duplicate insert degrades to a no-op
// instead of surfacing an integrity error.
type AnimalCategoryRepository interface {
	Upsert(ctx context.Context, q Querier, animalID, categoryID uuid.UUID) error
	UpdateRecord(ctx context.Context, animalID, categoryID uuid.UUID, record int) (*models.AnimalCategory, error)
	Delete(ctx context.Context, animalID, categoryID uuid.UUID) error
	DeleteForAnimal(ctx context.Context, animalID uuid.UUID) error
	ListForAnimal(ctx context.Context, animalID uuid.UUID) ([]models.AssociatedCategory, error)
	CountForAnimal(ctx context.Context, animalID uuid.UUID) (int, error)
}

type animalCategoryRepo struct {
	db Database
}

func NewAnimalCategoryRepo(db Database) AnimalCategoryRepository {
	return &animalCategoryRepo{db: db}
}

// Upsert inserts the pair if absent. An existing pair keeps its record value
// untouched; adding a category to a cart twice is idempotent.
func (r *animalCategoryRepo) Upsert(ctx context.Context, q Querier, animalID, categoryID uuid.UUID) error {
	query := `
		INSERT INTO animal_categories (animal_id, category_id, record)
		VALUES ($1, $2, NULL)
		ON CONFLICT (animal_id, category_id) DO NOTHING
	`
	_, err := q.Exec(ctx, query, animalID, categoryID)
	return err
}

func (r *animalCategoryRepo) UpdateRecord(ctx context.Context, animalID, categoryID uuid.UUID, record int) (*models.AnimalCategory, error) {
	row := &models.AnimalCategory{}
	query := `
		UPDATE animal_categories
		SET record = $1
		WHERE animal_id = $2 AND category_id = $3
		RETURNING animal_id, category_id, record
	`
	err := r.db.QueryRow(ctx, query, record, animalID, categoryID).Scan(&row.AnimalID, &row.CategoryID, &row.Record)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *animalCategoryRepo) Delete(ctx context.Context, animalID, categoryID uuid.UUID) error {
	query := `DELETE FROM animal_categories WHERE animal_id = $1 AND category_id = $2`
	tag, err := r.db.Exec(ctx, query, animalID, categoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForAnimal removes every pair for a request. Not wired into the
// DELETED transition, which keeps its rows; this exists for explicit bulk
// cleanup.
func (r *animalCategoryRepo) DeleteForAnimal(ctx context.Context, animalID uuid.UUID) error {
	query := `DELETE FROM animal_categories WHERE animal_id = $1`
	_, err := r.db.Exec(ctx, query, animalID)
	return err
}

func (r *animalCategoryRepo) ListForAnimal(ctx context.Context, animalID uuid.UUID) ([]models.AssociatedCategory, error) {
	query := `
		SELECT c.id, c.title, c.photo, c.measurement, ac.record
		FROM animal_categories ac
		JOIN categories c ON c.id = ac.category_id
		WHERE ac.animal_id = $1
		ORDER BY c.title ASC
	`
	rows, err := r.db.Query(ctx, query, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.AssociatedCategory
	for rows.Next() {
		var assoc models.AssociatedCategory
		if err := rows.Scan(&assoc.Category.ID, &assoc.Category.Title, &assoc.Category.Photo,
			&assoc.Category.Measurement, &assoc.Record); err != nil {
			return nil, err
		}
		list = append(list, assoc)
	}
	return list, rows.Err()
}

func (r *animalCategoryRepo) CountForAnimal(ctx context.Context, animalID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM animal_categories WHERE animal_id = $1`
	if err := r.db.QueryRow(ctx, query, animalID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
