package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assetman/api/internal/models"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetRepository struct {
	pool *pgxpool.Pool
}

func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// AssetFilter scopes list queries. An empty OwnerID means "all assets"
// (admin view); otherwise only assets created by that user are visible.
type AssetFilter struct {
	Query   string
	OwnerID string
	Limit   int
	Offset  int
}

func (r *AssetRepository) Create(ctx context.Context, asset models.Asset) error {
	const query = `
		INSERT INTO assets (
			id, name, category_id, department_id, purchase_date, cost,
			created_by, created_at, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.Name,
		asset.CategoryID,
		asset.DepartmentID,
		asset.PurchaseDate,
		asset.Cost,
		asset.CreatedBy,
		asset.Status,
		asset.Notes,
	)
	return err
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (models.Asset, error) {
	const query = `
		SELECT id, name, category_id, department_id, purchase_date, cost,
		       created_by, created_at, status, notes
		FROM assets WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var asset models.Asset
	if err := row.Scan(
		&asset.ID,
		&asset.Name,
		&asset.CategoryID,
		&asset.DepartmentID,
		&asset.PurchaseDate,
		&asset.Cost,
		&asset.CreatedBy,
		&asset.CreatedAt,
		&asset.Status,
		&asset.Notes,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Asset{}, ErrAssetNotFound
		}
		return models.Asset{}, err
	}
	return asset, nil
}

func (r *AssetRepository) GetDetails(ctx context.Context, id string) (models.AssetDetails, error) {
	const query = `
		SELECT a.id, a.name, c.name, d.name, a.purchase_date, a.cost,
		       u.name, a.created_at, a.status, a.notes
		FROM assets a
		JOIN categories c ON a.category_id = c.id
		JOIN departments d ON a.department_id = d.id
		JOIN users u ON a.created_by = u.id
		WHERE a.id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var details models.AssetDetails
	if err := row.Scan(
		&details.ID,
		&details.Name,
		&details.CategoryName,
		&details.DepartmentName,
		&details.PurchaseDate,
		&details.Cost,
		&details.CreatedByName,
		&details.CreatedAt,
		&details.Status,
		&details.Notes,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AssetDetails{}, ErrAssetNotFound
		}
		return models.AssetDetails{}, err
	}
	return details, nil
}

// ListFiltered searches name, category, department and status with a single
// ILIKE pattern, newest first.
func (r *AssetRepository) ListFiltered(ctx context.Context, filter AssetFilter) ([]models.AssetDetails, error) {
	const query = `
		SELECT a.id, a.name, c.name, d.name, a.purchase_date, a.cost,
		       u.name, a.created_at, a.status, a.notes
		FROM assets a
		JOIN categories c ON a.category_id = c.id
		JOIN departments d ON a.department_id = d.id
		JOIN users u ON a.created_by = u.id
		WHERE ($1 = '' OR a.created_by = $1)
		  AND (
			a.name ILIKE $2 OR
			c.name ILIKE $2 OR
			d.name ILIKE $2 OR
			a.status::text ILIKE $2
		  )
		ORDER BY a.created_at DESC
		LIMIT $3 OFFSET $4
	`

	pattern := "%" + filter.Query + "%"
	rows, err := r.pool.Query(ctx, query, filter.OwnerID, pattern, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.AssetDetails
	for rows.Next() {
		var details models.AssetDetails
		if err := rows.Scan(
			&details.ID,
			&details.Name,
			&details.CategoryName,
			&details.DepartmentName,
			&details.PurchaseDate,
			&details.Cost,
			&details.CreatedByName,
			&details.CreatedAt,
			&details.Status,
			&details.Notes,
		); err != nil {
			return nil, err
		}
		assets = append(assets, details)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) CountFiltered(ctx context.Context, filter AssetFilter) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM assets a
		JOIN categories c ON a.category_id = c.id
		JOIN departments d ON a.department_id = d.id
		WHERE ($1 = '' OR a.created_by = $1)
		  AND (
			a.name ILIKE $2 OR
			c.name ILIKE $2 OR
			d.name ILIKE $2 OR
			a.status::text ILIKE $2
		  )
	`

	pattern := "%" + filter.Query + "%"
	var count int
	if err := r.pool.QueryRow(ctx, query, filter.OwnerID, pattern).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AssetRepository) Update(ctx context.Context, asset models.Asset) error {
	const query = `
		UPDATE assets
		SET name = $2, category_id = $3, department_id = $4, purchase_date = $5,
		    cost = $6, status = $7, notes = $8
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.Name,
		asset.CategoryID,
		asset.DepartmentID,
		asset.PurchaseDate,
		asset.Cost,
		asset.Status,
		asset.Notes,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM assets WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

// Stats aggregates the dashboard numbers in one round of queries. ownerID=""
// aggregates over all assets.
func (r *AssetRepository) Stats(ctx context.Context, ownerID string) (models.AssetStats, error) {
	var stats models.AssetStats

	const totalsQuery = `
		SELECT COUNT(*), COALESCE(SUM(cost), 0)
		FROM assets WHERE ($1 = '' OR created_by = $1)
	`
	if err := r.pool.QueryRow(ctx, totalsQuery, ownerID).Scan(&stats.TotalAssets, &stats.TotalValue); err != nil {
		return models.AssetStats{}, err
	}

	const byDepartmentQuery = `
		SELECT d.name, COUNT(*)
		FROM assets a
		JOIN departments d ON a.department_id = d.id
		WHERE ($1 = '' OR a.created_by = $1)
		GROUP BY d.name
		ORDER BY COUNT(*) DESC
		LIMIT 5
	`
	byDepartment, err := r.scanGroupCounts(ctx, byDepartmentQuery, ownerID)
	if err != nil {
		return models.AssetStats{}, err
	}
	stats.AssetsByDepartment = byDepartment

	const byCategoryQuery = `
		SELECT c.name, COUNT(*)
		FROM assets a
		JOIN categories c ON a.category_id = c.id
		WHERE ($1 = '' OR a.created_by = $1)
		GROUP BY c.name
		ORDER BY COUNT(*) DESC
		LIMIT 5
	`
	byCategory, err := r.scanGroupCounts(ctx, byCategoryQuery, ownerID)
	if err != nil {
		return models.AssetStats{}, err
	}
	stats.AssetsByCategory = byCategory

	recent, err := r.ListFiltered(ctx, AssetFilter{OwnerID: ownerID, Limit: 5})
	if err != nil {
		return models.AssetStats{}, err
	}
	stats.RecentAssets = recent

	return stats, nil
}

func (r *AssetRepository) scanGroupCounts(ctx context.Context, query string, ownerID string) ([]models.GroupCount, error) {
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.GroupCount
	for rows.Next() {
		var gc models.GroupCount
		if err := rows.Scan(&gc.Name, &gc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, gc)
	}
	return counts, rows.Err()
}
