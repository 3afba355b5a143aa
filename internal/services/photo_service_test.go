package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/repository"
)

func testImagePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type photoServiceFixture struct {
	service  *PhotoService
	photos   *repository.JSONPhotoStore
	votes    *repository.JSONVoteStore
	storage  *UploadStorage
	notifier *captureNotifier
}

func setupPhotoService(t *testing.T) *photoServiceFixture {
	t.Helper()

	dir, err := os.MkdirTemp("", "festa-roser-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	photos := repository.NewJSONPhotoStore(filepath.Join(dir, "photos.json"))
	votes := repository.NewJSONVoteStore(filepath.Join(dir, "votes.json"))

	storage, err := NewUploadStorage(filepath.Join(dir, "uploads"), nil, 10)
	require.NoError(t, err)
	thumbs := NewThumbnailService(storage.BasePath())
	notifier := &captureNotifier{}

	return &photoServiceFixture{
		service:  NewPhotoService(photos, votes, storage, thumbs, notifier),
		photos:   photos,
		votes:    votes,
		storage:  storage,
		notifier: notifier,
	}
}

func TestPhotoService_Upload(t *testing.T) {
	ctx := context.Background()
	joan := &models.Identity{Provider: "google", ID: "111", Name: "Joan"}

	t.Run("rejects anonymous callers", func(t *testing.T) {
		f := setupPhotoService(t)

		_, err := f.service.Upload(ctx, nil, testImagePNG(t, 4, 4), "a.png")
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		f := setupPhotoService(t)

		_, err := f.service.Upload(ctx, joan, nil, "a.png")
		assert.ErrorIs(t, err, models.ErrNoImage)
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		f := setupPhotoService(t)

		big := make([]byte, f.service.MaxUploadBytes()+1)
		_, err := f.service.Upload(ctx, joan, big, "a.png")
		assert.ErrorIs(t, err, models.ErrFileTooLarge)
	})

	t.Run("rejects bytes that do not decode as an image", func(t *testing.T) {
		f := setupPhotoService(t)

		_, err := f.service.Upload(ctx, joan, []byte("definitely not an image"), "a.png")
		assert.ErrorIs(t, err, models.ErrNotAnImage)

		photos, loadErr := f.photos.Load(ctx)
		require.NoError(t, loadErr)
		assert.Empty(t, photos)
	})

	t.Run("stores the file and appends a ledger record", func(t *testing.T) {
		f := setupPhotoService(t)

		record, err := f.service.Upload(ctx, joan, testImagePNG(t, 8, 8), "festa.png")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(record.ID, "foto-"))
		assert.True(t, strings.HasPrefix(record.Src, UploadsURLPrefix))
		assert.Equal(t, "111", record.Uploader.ID)

		storedName := strings.TrimPrefix(record.Src, UploadsURLPrefix)
		assert.True(t, f.storage.Exists(storedName))

		photos, err := f.photos.Load(ctx)
		require.NoError(t, err)
		require.Len(t, photos, 1)
		assert.Equal(t, record.ID, photos[0].ID)
	})

	t.Run("creates an empty vote entry for the new photo", func(t *testing.T) {
		f := setupPhotoService(t)

		record, err := f.service.Upload(ctx, joan, testImagePNG(t, 8, 8), "festa.png")
		require.NoError(t, err)

		ledger, err := f.votes.Load(ctx)
		require.NoError(t, err)
		require.Contains(t, ledger, record.ID)
		assert.Empty(t, ledger[record.ID].Voters)
	})

	t.Run("generates a thumbnail alongside the upload", func(t *testing.T) {
		f := setupPhotoService(t)

		record, err := f.service.Upload(ctx, joan, testImagePNG(t, 600, 400), "festa.png")
		require.NoError(t, err)

		require.NotEmpty(t, record.Thumb)
		assert.True(t, strings.Contains(record.Thumb, "thumbs/"))
		assert.True(t, strings.HasSuffix(record.Thumb, "_thumb.jpg"))
	})

	t.Run("broadcasts photoAdded with a fresh tally", func(t *testing.T) {
		f := setupPhotoService(t)

		record, err := f.service.Upload(ctx, joan, testImagePNG(t, 8, 8), "festa.png")
		require.NoError(t, err)

		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, EventPhotoAdded, f.notifier.events[0].Type)

		payload, ok := f.notifier.events[0].Payload.(PhotoAddedPayload)
		require.True(t, ok)
		assert.Equal(t, record.ID, payload.ID)
		assert.Equal(t, record.Src, payload.Src)
		assert.Equal(t, 0, payload.Votes)
		assert.False(t, payload.Voted)
	})
}

func TestPhotoService_Delete(t *testing.T) {
	ctx := context.Background()
	joan := &models.Identity{Provider: "google", ID: "111", Name: "Joan"}
	maria := &models.Identity{Provider: "facebook", ID: "222", Name: "Maria"}

	uploadOne := func(t *testing.T, f *photoServiceFixture) *models.PhotoRecord {
		record, err := f.service.Upload(ctx, joan, testImagePNG(t, 8, 8), "festa.png")
		require.NoError(t, err)
		f.notifier.events = nil
		return record
	}

	t.Run("rejects anonymous callers", func(t *testing.T) {
		f := setupPhotoService(t)
		record := uploadOne(t, f)

		err := f.service.Delete(ctx, record.ID, nil)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("unknown photo id yields not found", func(t *testing.T) {
		f := setupPhotoService(t)

		err := f.service.Delete(ctx, "foto-nope", joan)
		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
	})

	t.Run("non-owner is refused and ledgers stay intact", func(t *testing.T) {
		f := setupPhotoService(t)
		record := uploadOne(t, f)

		err := f.service.Delete(ctx, record.ID, maria)
		assert.ErrorIs(t, err, models.ErrNotOwner)

		photos, err := f.photos.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, photos, 1)

		ledger, err := f.votes.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, ledger, record.ID)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("owner delete removes record and vote entry", func(t *testing.T) {
		f := setupPhotoService(t)
		record := uploadOne(t, f)

		require.NoError(t, f.service.Delete(ctx, record.ID, joan))

		photos, err := f.photos.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, photos)

		ledger, err := f.votes.Load(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ledger, record.ID)

		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, EventPhotoDeleted, f.notifier.events[0].Type)
		payload, ok := f.notifier.events[0].Payload.(PhotoDeletedPayload)
		require.True(t, ok)
		assert.Equal(t, record.ID, payload.ID)
	})

	t.Run("stored image file stays on disk after delete", func(t *testing.T) {
		f := setupPhotoService(t)
		record := uploadOne(t, f)
		storedName := strings.TrimPrefix(record.Src, UploadsURLPrefix)

		require.NoError(t, f.service.Delete(ctx, record.ID, joan))

		assert.True(t, f.storage.Exists(storedName))
	})

	t.Run("legacy record without uploader id honors the name fallback", func(t *testing.T) {
		f := setupPhotoService(t)

		legacy := &models.PhotoRecord{
			ID:       "foto-1500000000000",
			Src:      "/uploads/old.jpg",
			Uploader: models.Uploader{Provider: "google", Name: "Joan"},
		}
		require.NoError(t, f.photos.Save(ctx, []*models.PhotoRecord{legacy}))

		err := f.service.Delete(ctx, legacy.ID, maria)
		assert.ErrorIs(t, err, models.ErrNotOwner)

		require.NoError(t, f.service.Delete(ctx, legacy.ID, joan))
	})
}

func TestPhotoService_List(t *testing.T) {
	ctx := context.Background()
	joan := &models.Identity{Provider: "google", ID: "111", Name: "Joan"}

	t.Run("empty ledger lists as empty slice", func(t *testing.T) {
		f := setupPhotoService(t)

		photos, err := f.service.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, photos)
		assert.Empty(t, photos)
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		f := setupPhotoService(t)

		first, err := f.service.Upload(ctx, joan, testImagePNG(t, 8, 8), "a.png")
		require.NoError(t, err)
		second, err := f.service.Upload(ctx, joan, testImagePNG(t, 8, 8), "b.png")
		require.NoError(t, err)

		photos, err := f.service.List(ctx)
		require.NoError(t, err)
		require.Len(t, photos, 2)
		assert.Equal(t, first.ID, photos[0].ID)
		assert.Equal(t, second.ID, photos[1].ID)
	})
}
