package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository handles category persistence.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category and sets the generated ID on the struct.
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `INSERT INTO categories (name, description, color_hex, icon_name, created_by)
	          VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		category.Name, category.Description, category.ColorHex, category.IconName, category.CreatedBy,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	category.CategoryID = int(id)
	return nil
}

const categoryColumns = `category_id, name, description, color_hex, icon_name, created_by, is_active, created_at, updated_at`

// GetByID retrieves an active category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = ? AND is_active = 1`

	category := &model.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.CategoryID, &category.Name, &category.Description,
		&category.ColorHex, &category.IconName, &category.CreatedBy,
		&category.IsActive, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListByOwner returns the user's active categories, newest first.
func (r *CategoryRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories
	          WHERE created_by = ? AND is_active = 1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(
			&c.CategoryID, &c.Name, &c.Description,
			&c.ColorHex, &c.IconName, &c.CreatedBy,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// SearchByOwner returns the user's active categories whose name contains the
// search term, ordered by name.
func (r *CategoryRepository) SearchByOwner(ctx context.Context, userID uuid.UUID, term string) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories
	          WHERE created_by = ? AND is_active = 1 AND name LIKE ? ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, "%"+term+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(
			&c.CategoryID, &c.Name, &c.Description,
			&c.ColorHex, &c.IconName, &c.CreatedBy,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update persists the mutable category fields.
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	query := `UPDATE categories SET name = ?, description = ?, color_hex = ?, icon_name = ?
	          WHERE category_id = ? AND is_active = 1`

	_, err := r.db.ExecContext(ctx, query,
		category.Name, category.Description, category.ColorHex, category.IconName,
		category.CategoryID,
	)
	return err
}

// SoftDelete marks a category inactive without removing the row.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE categories SET is_active = 0 WHERE category_id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
