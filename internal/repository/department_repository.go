package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assetman/api/internal/models"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentInUse    = errors.New("department in use by assets")
)

type DepartmentRepository struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

func (r *DepartmentRepository) Create(ctx context.Context, department models.Department) error {
	const query = `
		INSERT INTO departments (id, name, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		department.ID,
		department.Name,
		department.Description,
		department.CreatedBy,
	)
	return err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (models.Department, error) {
	const query = `
		SELECT id, name, description, created_by, created_at
		FROM departments WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var department models.Department
	if err := row.Scan(
		&department.ID,
		&department.Name,
		&department.Description,
		&department.CreatedBy,
		&department.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Department{}, ErrDepartmentNotFound
		}
		return models.Department{}, err
	}
	return department, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	const query = `
		SELECT d.id, d.name, d.description, d.created_by, d.created_at, u.name
		FROM departments d
		JOIN users u ON d.created_by = u.id
		ORDER BY d.name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(
			&department.ID,
			&department.Name,
			&department.Description,
			&department.CreatedBy,
			&department.CreatedAt,
			&department.CreatedByName,
		); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) ListFields(ctx context.Context) ([]models.Field, error) {
	const query = `SELECT id, name FROM departments ORDER BY name ASC`
	return scanFields(ctx, r.pool, query)
}

func (r *DepartmentRepository) Update(ctx context.Context, id string, name string, description string) error {
	const query = `
		UPDATE departments SET name = $2, description = $3 WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, name, description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	const countQuery = `SELECT COUNT(*) FROM assets WHERE department_id = $1`
	var inUse int
	if err := r.pool.QueryRow(ctx, countQuery, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse > 0 {
		return ErrDepartmentInUse
	}

	const query = `DELETE FROM departments WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}
