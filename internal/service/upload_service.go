package service

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
)

const (
	MaxImageBytes = 5 * 1024 * 1024
	MaxImageFiles = 5
	thumbWidth    = 320
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore is the bucket seam; implemented by storage.ImageStore.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadResult struct {
	URL          string `json:"url"`
	Key          string `json:"key"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type UploadService struct {
	store  ImageStore
	folder string
}

func NewUploadService(store ImageStore, folder string) *UploadService {
	if folder == "" {
		folder = "marketplace"
	}
	return &UploadService{store: store, folder: folder}
}

// UploadImage validates and stores one image under a fresh uuid key.
// For jpeg/png a 320px-wide thumbnail is stored alongside; webp is
// accepted but not thumbnailed.
func (s *UploadService) UploadImage(ctx context.Context, f UploadFile) (*UploadResult, error) {
	ext, ok := imageExtensions[f.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", apperr.ErrInvalidRequest, f.ContentType)
	}
	if len(f.Data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image too large (max 5MB)", apperr.ErrInvalidRequest)
	}

	var img image.Image
	if f.ContentType != "image/webp" {
		var err error
		img, err = imaging.Decode(bytes.NewReader(f.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: corrupt image", apperr.ErrInvalidRequest)
		}
	}

	key := s.folder + "/" + uuid.NewString() + ext
	url, err := s.store.Upload(ctx, key, f.ContentType, f.Data)
	if err != nil {
		return nil, err
	}
	result := &UploadResult{URL: url, Key: key}

	if img == nil {
		return result, nil
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	thumbKey := key + ".thumb.jpg"
	thumbURL, err := s.store.Upload(ctx, thumbKey, "image/jpeg", buf.Bytes())
	if err != nil {
		return nil, err
	}
	result.ThumbnailURL = thumbURL
	return result, nil
}

// UploadImages stores up to MaxImageFiles images; the first failure
// aborts the batch.
func (s *UploadService) UploadImages(ctx context.Context, files []UploadFile) ([]*UploadResult, error) {
	if len(files) > MaxImageFiles {
		return nil, fmt.Errorf("%w: max %d images", apperr.ErrInvalidRequest, MaxImageFiles)
	}
	out := make([]*UploadResult, 0, len(files))
	for _, f := range files {
		res, err := s.UploadImage(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		out = append(out, res)
	}
	return out, nil
}
