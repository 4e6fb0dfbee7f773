package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assetman/api/internal/models"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type AttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment models.Attachment) error {
	const query = `
		INSERT INTO asset_attachments (
			id, asset_id, bucket, object_key, file_name, mime_type,
			size_bytes, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		attachment.ID,
		attachment.AssetID,
		attachment.Bucket,
		attachment.ObjectKey,
		attachment.FileName,
		attachment.MimeType,
		attachment.SizeBytes,
		attachment.CreatedBy,
	)
	return err
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id string) (models.Attachment, error) {
	const query = `
		SELECT id, asset_id, bucket, object_key, file_name, mime_type,
		       size_bytes, created_by, created_at
		FROM asset_attachments WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var attachment models.Attachment
	if err := row.Scan(
		&attachment.ID,
		&attachment.AssetID,
		&attachment.Bucket,
		&attachment.ObjectKey,
		&attachment.FileName,
		&attachment.MimeType,
		&attachment.SizeBytes,
		&attachment.CreatedBy,
		&attachment.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Attachment{}, ErrAttachmentNotFound
		}
		return models.Attachment{}, err
	}
	return attachment, nil
}

func (r *AttachmentRepository) ListByAsset(ctx context.Context, assetID string) ([]models.Attachment, error) {
	const query = `
		SELECT id, asset_id, bucket, object_key, file_name, mime_type,
		       size_bytes, created_by, created_at
		FROM asset_attachments
		WHERE asset_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var attachment models.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.AssetID,
			&attachment.Bucket,
			&attachment.ObjectKey,
			&attachment.FileName,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.CreatedBy,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}

func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM asset_attachments WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
