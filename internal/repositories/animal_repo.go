package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zoorequest/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AnimalRepository owns the request lifecycle rows. Every status-changing
// statement is guarded by the expected current status, so a request in the
// wrong state is indistinguishable from a missing one (ErrNotFound).
type AnimalRepository interface {
	// AcquireDraft returns the id of the caller's open draft, creating one
	// when none exists. Safe under concurrent calls for the same creator:
	// the insert targets the partial unique index on (creator_id) WHERE
	// status = 'DRAFT' and backs off on conflict.
	AcquireDraft(ctx context.Context, q Querier, creatorID uuid.UUID) (uuid.UUID, error)
	FindDraftID(ctx context.Context, creatorID uuid.UUID) (*uuid.UUID, error)
	UpdateDraft(ctx context.Context, id, creatorID uuid.UUID, upd models.AnimalUpdate) error
	Form(ctx context.Context, id uuid.UUID) error
	Resolve(ctx context.Context, id uuid.UUID, outcome string, moderatorID uuid.UUID, completionDate, recordDate time.Time) error
	MarkDeleted(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Animal, error)
	List(ctx context.Context, filter models.AnimalFilter) ([]*models.Animal, error)
}

type animalRepo struct {
	db Database
}

func NewAnimalRepo(db Database) AnimalRepository {
	return &animalRepo{db: db}
}

const animalColumns = `a.id, a.status, a.animal, a.period, a.habitat, a.creation_date,
		       a.formation_date, a.completion_date, a.record_date, a.moderator_id,
		       u.id, u.username`

func scanAnimal(row pgx.Row) (*models.Animal, error) {
	animal := &models.Animal{}
	err := row.Scan(&animal.ID, &animal.Status, &animal.Animal, &animal.Period, &animal.Habitat,
		&animal.CreationDate, &animal.FormationDate, &animal.CompletionDate, &animal.RecordDate,
		&animal.ModeratorID, &animal.Creator.ID, &animal.Creator.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return animal, nil
}

func (r *animalRepo) AcquireDraft(ctx context.Context, q Querier, creatorID uuid.UUID) (uuid.UUID, error) {
	insert := `
		INSERT INTO animals (id, status, creation_date, creator_id)
		VALUES ($1, 'DRAFT', NOW(), $2)
		ON CONFLICT (creator_id) WHERE status = 'DRAFT' DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, uuid.New(), creatorID); err != nil {
		return uuid.Nil, fmt.Errorf("acquire draft: %w", err)
	}

	var id uuid.UUID
	query := `SELECT id FROM animals WHERE creator_id = $1 AND status = 'DRAFT'`
	if err := q.QueryRow(ctx, query, creatorID).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("acquire draft: %w", err)
	}
	return id, nil
}

func (r *animalRepo) FindDraftID(ctx context.Context, creatorID uuid.UUID) (*uuid.UUID, error) {
	var id uuid.UUID
	query := `SELECT id FROM animals WHERE creator_id = $1 AND status = 'DRAFT'`
	err := r.db.QueryRow(ctx, query, creatorID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// UpdateDraft mutates a draft's editable fields; the creator must own it.
func (r *animalRepo) UpdateDraft(ctx context.Context, id, creatorID uuid.UUID, upd models.AnimalUpdate) error {
	query := `
		UPDATE animals
		SET animal = COALESCE($1, animal),
		    period = COALESCE($2, period),
		    habitat = COALESCE($3, habitat)
		WHERE id = $4 AND creator_id = $5 AND status = 'DRAFT'
	`
	tag, err := r.db.Exec(ctx, query, upd.Animal, upd.Period, upd.Habitat, id, creatorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *animalRepo) Form(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE animals
		SET status = 'FORMED', formation_date = NOW()
		WHERE id = $1 AND status = 'DRAFT'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Resolve closes a formed request in a single statement, so a concurrent
// reader never observes a terminal status without its dates.
func (r *animalRepo) Resolve(ctx context.Context, id uuid.UUID, outcome string, moderatorID uuid.UUID, completionDate, recordDate time.Time) error {
	query := `
		UPDATE animals
		SET status = $1, completion_date = $2, record_date = $3, moderator_id = $4
		WHERE id = $5 AND status = 'FORMED'
	`
	tag, err := r.db.Exec(ctx, query, outcome, completionDate, recordDate, moderatorID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkDeleted tombstones a draft. The row and its associations stay in place.
func (r *animalRepo) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE animals SET status = 'DELETED' WHERE id = $1 AND status = 'DRAFT'`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Animal, error) {
	query := `
		SELECT ` + animalColumns + `
		FROM animals a
		JOIN users u ON u.id = a.creator_id
		WHERE a.id = $1 AND a.status <> 'DELETED'
	`
	return scanAnimal(r.db.QueryRow(ctx, query, id))
}

func (r *animalRepo) List(ctx context.Context, filter models.AnimalFilter) ([]*models.Animal, error) {
	query := `
		SELECT ` + animalColumns + `
		FROM animals a
		JOIN users u ON u.id = a.creator_id
		WHERE a.status <> 'DELETED'
	`
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if filter.FormedAfter != nil {
		args = append(args, *filter.FormedAfter)
		query += fmt.Sprintf(" AND a.formation_date >= $%d", len(args))
	}
	if filter.FormedBefore != nil {
		args = append(args, *filter.FormedBefore)
		query += fmt.Sprintf(" AND a.formation_date <= $%d", len(args))
	}
	query += " ORDER BY a.creation_date DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var animals []*models.Animal
	for rows.Next() {
		animal := &models.Animal{}
		if err := rows.Scan(&animal.ID, &animal.Status, &animal.Animal, &animal.Period, &animal.Habitat,
			&animal.CreationDate, &animal.FormationDate, &animal.CompletionDate, &animal.RecordDate,
			&animal.ModeratorID, &animal.Creator.ID, &animal.Creator.Username); err != nil {
			return nil, err
		}
		animals = append(animals, animal)
	}
	return animals, rows.Err()
}
