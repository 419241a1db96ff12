package repositories

import (
	"context"
	"errors"
	"strings"

	"zoorequest/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error)
	SetPhoto(ctx context.Context, id uuid.UUID, photo string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, titlePrefix string) ([]*models.Category, error)
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, title, photo, is_active, measurement, description, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(&category.ID, &category.Title, &category.Photo, &category.IsActive,
		&category.Measurement, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, title, photo, is_active, measurement, description, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.Title, category.Photo,
		category.Measurement, category.Description)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(r.db.QueryRow(ctx, query, id))
}

func (r *categoryRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND is_active`
	return scanCategory(r.db.QueryRow(ctx, query, id))
}

// Update mutates an active category, leaving nil fields unchanged. An absent
// or inactive category reports ErrNotFound.
func (r *categoryRepo) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	query := `
		UPDATE categories
		SET title = COALESCE($1, title),
		    measurement = COALESCE($2, measurement),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $4 AND is_active
		RETURNING ` + categoryColumns
	return scanCategory(r.db.QueryRow(ctx, query, upd.Title, upd.Measurement, upd.Description, id))
}

func (r *categoryRepo) SetPhoto(ctx context.Context, id uuid.UUID, photo string) error {
	query := `UPDATE categories SET photo = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, photo, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a category and clears its photo reference. The
// blob itself must already be gone before this is called.
func (r *categoryRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE categories SET is_active = FALSE, photo = NULL, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepo) ListActive(ctx context.Context, titlePrefix string) ([]*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active AND title ILIKE $1
		ORDER BY title ASC
	`
	pattern := escapeLike(titlePrefix) + "%"
	rows, err := r.db.Query(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Title, &category.Photo, &category.IsActive,
			&category.Measurement, &category.Description, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in user input so a prefix search
// stays a prefix search.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
