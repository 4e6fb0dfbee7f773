package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assetman/api/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category in use by assets")
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, category models.Category) error {
	const query = `
		INSERT INTO categories (id, name, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.CreatedBy,
	)
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (models.Category, error) {
	const query = `
		SELECT id, name, description, created_by, created_at
		FROM categories WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var category models.Category
	if err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedBy,
		&category.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

// List includes the creator's name for table views.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	const query = `
		SELECT c.id, c.name, c.description, c.created_by, c.created_at, u.name
		FROM categories c
		JOIN users u ON c.created_by = u.id
		ORDER BY c.name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.CreatedBy,
			&category.CreatedAt,
			&category.CreatedByName,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) ListFields(ctx context.Context) ([]models.Field, error) {
	const query = `SELECT id, name FROM categories ORDER BY name ASC`
	return scanFields(ctx, r.pool, query)
}

func (r *CategoryRepository) Update(ctx context.Context, id string, name string, description string) error {
	const query = `
		UPDATE categories SET name = $2, description = $3 WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, name, description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete refuses to remove a category that assets still reference.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	const countQuery = `SELECT COUNT(*) FROM assets WHERE category_id = $1`
	var inUse int
	if err := r.pool.QueryRow(ctx, countQuery, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	const query = `DELETE FROM categories WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func scanFields(ctx context.Context, pool *pgxpool.Pool, query string) ([]models.Field, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []models.Field
	for rows.Next() {
		var field models.Field
		if err := rows.Scan(&field.ID, &field.Name); err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}
