package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"assetman/api/internal/config"
	"assetman/api/internal/ids"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
	"assetman/api/internal/storage"
)

const (
	maxAttachmentBytes = 20 << 20
	presignExpiry      = 15 * time.Minute
)

type AttachmentService struct {
	attachments *repository.AttachmentRepository
	store       *storage.ObjectStore
	cfg         *config.AppConfig
	log         zerolog.Logger
}

func NewAttachmentService(attachments *repository.AttachmentRepository, store *storage.ObjectStore, cfg *config.AppConfig, log zerolog.Logger) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		store:       store,
		cfg:         cfg,
		log:         log,
	}
}

type AttachmentUploadInput struct {
	AssetID   string
	CreatedBy string
	File      multipart.File
	Header    *multipart.FileHeader
}

// Upload streams an invoice/photo to object storage and records its metadata.
func (s *AttachmentService) Upload(ctx context.Context, input AttachmentUploadInput) (models.Attachment, error) {
	if input.File == nil || input.Header == nil {
		return models.Attachment{}, errors.New("invalid file payload")
	}
	if input.Header.Size > maxAttachmentBytes {
		return models.Attachment{}, fmt.Errorf("file exceeds %d bytes", maxAttachmentBytes)
	}

	contentType := input.Header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := models.Attachment{
		ID:        ids.New(),
		AssetID:   input.AssetID,
		Bucket:    s.cfg.Storage.BucketAttachments,
		FileName:  path.Base(input.Header.Filename),
		MimeType:  contentType,
		SizeBytes: input.Header.Size,
		CreatedBy: input.CreatedBy,
	}
	attachment.ObjectKey = fmt.Sprintf("assets/%s/%s%s", input.AssetID, attachment.ID, path.Ext(attachment.FileName))

	_, err := s.store.Client().PutObject(ctx, attachment.Bucket, attachment.ObjectKey, input.File, input.Header.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return models.Attachment{}, fmt.Errorf("store object: %w", err)
	}

	if err := s.attachments.Create(ctx, attachment); err != nil {
		return models.Attachment{}, err
	}

	s.log.Debug().
		Str("asset_id", input.AssetID).
		Str("attachment_id", attachment.ID).
		Int64("size", attachment.SizeBytes).
		Msg("attachment stored")

	return attachment, nil
}

type AttachmentView struct {
	Attachment models.Attachment
	URL        string
}

// List returns an asset's attachments with time-limited download URLs.
func (s *AttachmentService) List(ctx context.Context, assetID string) ([]AttachmentView, error) {
	attachments, err := s.attachments.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	views := make([]AttachmentView, 0, len(attachments))
	for _, attachment := range attachments {
		url, err := s.store.PresignGet(ctx, attachment.Bucket, attachment.ObjectKey, presignExpiry)
		if err != nil {
			s.log.Warn().Err(err).Str("attachment_id", attachment.ID).Msg("presign failed")
			url = ""
		}
		views = append(views, AttachmentView{Attachment: attachment, URL: url})
	}
	return views, nil
}
