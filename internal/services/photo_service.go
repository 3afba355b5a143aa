package services

import (
	"bytes"
	"context"
	"path"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/observability"
	"github.com/R6Joan/Festa-Roser/internal/repository"
)

// UploadsURLPrefix is where stored files are served from
const UploadsURLPrefix = "/uploads/"

// PhotoService owns the photo ledger: listing, upload-append and
// owner-gated deletion. Mutations persist both ledgers before the
// broadcast goes out.
type PhotoService struct {
	photos   repository.PhotoStore
	votes    repository.VoteStore
	storage  *UploadStorage
	thumbs   *ThumbnailService
	notifier Notifier
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(
	photos repository.PhotoStore,
	votes repository.VoteStore,
	storage *UploadStorage,
	thumbs *ThumbnailService,
	notifier Notifier,
) *PhotoService {
	return &PhotoService{
		photos:   photos,
		votes:    votes,
		storage:  storage,
		thumbs:   thumbs,
		notifier: notifier,
	}
}

// MaxUploadBytes returns the configured image size ceiling
func (s *PhotoService) MaxUploadBytes() int64 {
	return s.storage.MaxBytes()
}

// List returns all photo records in insertion order, oldest first. The
// ledger is re-read from durable storage on every call.
func (s *PhotoService) List(ctx context.Context) ([]*models.PhotoRecord, error) {
	ctx, span := observability.StartServiceSpan(ctx, "photos", "list")
	defer span.End()

	photos, err := s.photos.Load(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return photos, nil
}

// Upload stores the image, appends a record to the photo ledger, creates
// an empty vote ledger entry, persists both, and broadcasts photoAdded.
func (s *PhotoService) Upload(ctx context.Context, identity *models.Identity, content []byte, originalFilename string) (*models.PhotoRecord, error) {
	ctx, span := observability.StartServiceSpan(ctx, "photos", "upload")
	defer span.End()

	if identity == nil {
		return nil, models.ErrUnauthenticated
	}
	if len(content) == 0 {
		return nil, models.ErrNoImage
	}
	if int64(len(content)) > s.storage.MaxBytes() {
		return nil, models.ErrFileTooLarge
	}
	if err := s.thumbs.Validate(content); err != nil {
		return nil, err
	}

	storedName, err := s.storage.Store(bytes.NewReader(content), originalFilename, int64(len(content)))
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	thumb := ""
	if thumbName, err := s.thumbs.Generate(content, storedName); err != nil {
		observability.WithContext(ctx).Warnf("Failed to generate thumbnail for %s: %v", storedName, err)
	} else {
		thumb = path.Join(UploadsURLPrefix, thumbName)
	}

	record, err := models.NewPhotoRecord(identity, path.Join(UploadsURLPrefix, storedName), thumb)
	if err != nil {
		s.storage.Delete(storedName)
		return nil, err
	}
	span.SetAttributes(observability.PhotoID(record.ID))

	photos, err := s.photos.Load(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	photos = append(photos, record)
	if err := s.photos.Save(ctx, photos); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	ledger, err := s.votes.Load(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	ledger.Entry(record.ID)
	if err := s.votes.Save(ctx, ledger); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	s.notifier.Notify(Event{
		Type: EventPhotoAdded,
		Payload: PhotoAddedPayload{
			ID:    record.ID,
			Src:   record.Src,
			Thumb: record.Thumb,
			Votes: 0,
			Voted: false,
		},
	})

	observability.WithContext(ctx).Infof("Photo uploaded: %s by %s", record.ID, identity.UserID())

	return record, nil
}

// Delete removes a photo and its vote entry if the acting identity passes
// the ownership gate. The stored image file stays on disk.
func (s *PhotoService) Delete(ctx context.Context, photoID string, identity *models.Identity) error {
	ctx, span := observability.StartServiceSpan(ctx, "photos", "delete")
	defer span.End()

	if identity == nil {
		return models.ErrUnauthenticated
	}
	span.SetAttributes(observability.PhotoID(photoID))

	photos, err := s.photos.Load(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}

	idx := -1
	for i, p := range photos {
		if p.ID == photoID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.ErrPhotoNotFound
	}

	if !photos[idx].Uploader.OwnedBy(identity) {
		return models.ErrNotOwner
	}

	photos = append(photos[:idx], photos[idx+1:]...)
	if err := s.photos.Save(ctx, photos); err != nil {
		observability.RecordError(span, err)
		return err
	}

	ledger, err := s.votes.Load(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}
	delete(ledger, photoID)
	if err := s.votes.Save(ctx, ledger); err != nil {
		observability.RecordError(span, err)
		return err
	}

	s.notifier.Notify(Event{
		Type:    EventPhotoDeleted,
		Payload: PhotoDeletedPayload{ID: photoID},
	})

	observability.WithContext(ctx).Infof("Photo deleted: %s by %s", photoID, identity.UserID())

	return nil
}
