package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/affcms/festival-api/internal/models"
)

// ErrDuplicateName signals a unique constraint violation on the category name.
var ErrDuplicateName = errors.New("category name already exists")

const uniqueViolation = "23505"

// CategoryRepository persists the flat slot category registry.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories sorted by display order then name.
func (r *CategoryRepository) List(ctx context.Context, visibleOnly bool) ([]models.SlotCategory, error) {
	query := `SELECT id, name, display_order, is_visible, created_at, updated_at FROM slot_categories`
	if visibleOnly {
		query += ` WHERE is_visible = TRUE`
	}
	query += ` ORDER BY display_order ASC, name ASC`

	var categories []models.SlotCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list slot categories: %w", err)
	}
	return categories, nil
}

// FindByID loads a category by its identifier.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.SlotCategory, error) {
	const query = `SELECT id, name, display_order, is_visible, created_at, updated_at FROM slot_categories WHERE id = $1`
	var category models.SlotCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName loads a category by its exact name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.SlotCategory, error) {
	const query = `SELECT id, name, display_order, is_visible, created_at, updated_at FROM slot_categories WHERE name = $1`
	var category models.SlotCategory
	if err := r.db.GetContext(ctx, &category, query, name); err != nil {
		return nil, err
	}
	return &category, nil
}

// Insert stores a new category.
func (r *CategoryRepository) Insert(ctx context.Context, category *models.SlotCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	const query = `
INSERT INTO slot_categories (id, name, display_order, is_visible, created_at, updated_at)
VALUES (:id, :name, :display_order, :is_visible, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert slot category: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.SlotCategory) error {
	category.UpdatedAt = time.Now().UTC()

	const query = `
UPDATE slot_categories SET name = :name, display_order = :display_order, is_visible = :is_visible, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("update slot category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("slot category rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a category. Slots that captured the name keep it.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM slot_categories WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete slot category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("slot category rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
