package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/affcms/festival-api/internal/models"
)

// ErrStaleVersion signals that the plan row changed between load and save.
var ErrStaleVersion = errors.New("plan version is stale")

// PlanRepository persists session plans as whole JSON documents. The plan is
// the unit of write atomicity: a save replaces the entire document in one
// statement guarded by the version loaded with it.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

type planRow struct {
	ID        string         `db:"id"`
	Year      int            `db:"year"`
	IsVisible bool           `db:"is_visible"`
	Version   int            `db:"version"`
	Doc       types.JSONText `db:"doc"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *planRow) toModel() (*models.Plan, error) {
	var plan models.Plan
	if err := json.Unmarshal(r.Doc, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan document %s: %w", r.ID, err)
	}
	plan.ID = r.ID
	plan.Version = r.Version
	return &plan, nil
}

func toRow(plan *models.Plan) (*planRow, error) {
	doc, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan document %s: %w", plan.ID, err)
	}
	return &planRow{
		ID:        plan.ID,
		Year:      plan.Year,
		IsVisible: plan.IsVisible,
		Version:   plan.Version,
		Doc:       types.JSONText(doc),
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}, nil
}

// List returns plans ordered by festival year descending.
func (r *PlanRepository) List(ctx context.Context, visibleOnly bool) ([]models.Plan, error) {
	query := `SELECT id, year, is_visible, version, doc, created_at, updated_at FROM session_plans`
	if visibleOnly {
		query += ` WHERE is_visible = TRUE`
	}
	query += ` ORDER BY year DESC`

	var rows []planRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list session plans: %w", err)
	}
	plans := make([]models.Plan, 0, len(rows))
	for i := range rows {
		plan, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, nil
}

// FindByID loads a plan document by its identifier.
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	const query = `SELECT id, year, is_visible, version, doc, created_at, updated_at FROM session_plans WHERE id = $1`
	var row planRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

// Insert stores a brand new plan document at version 1.
func (r *PlanRepository) Insert(ctx context.Context, plan *models.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	plan.Version = 1

	row, err := toRow(plan)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO session_plans (id, year, is_visible, version, doc, created_at, updated_at)
VALUES (:id, :year, :is_visible, :version, :doc, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert session plan: %w", err)
	}
	return nil
}

// Save replaces the whole plan document, guarded by the version the caller
// loaded. A concurrent writer bumps the version first and this save affects
// zero rows, surfacing ErrStaleVersion instead of clobbering the other write.
func (r *PlanRepository) Save(ctx context.Context, plan *models.Plan) error {
	plan.UpdatedAt = time.Now().UTC()

	row, err := toRow(plan)
	if err != nil {
		return err
	}

	const query = `
UPDATE session_plans
SET year = $1, is_visible = $2, doc = $3, version = version + 1, updated_at = $4
WHERE id = $5 AND version = $6`
	result, err := r.db.ExecContext(ctx, query, row.Year, row.IsVisible, row.Doc, row.UpdatedAt, row.ID, row.Version)
	if err != nil {
		return fmt.Errorf("save session plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("session plan rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStaleVersion
	}
	plan.Version++
	return nil
}

// Delete removes the plan document and, with it, the whole embedded tree.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM session_plans WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete session plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("session plan rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
