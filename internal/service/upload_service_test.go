package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
)

type memBucket struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *memBucket) Upload(_ context.Context, key, contentType string, data []byte) (string, error) {
	b.objects[key] = data
	b.types[key] = contentType
	return "https://bucket.test/" + key, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for x := 0; x < 640; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImageWithThumbnail(t *testing.T) {
	bucket := newMemBucket()
	svc := NewUploadService(bucket, "listings")

	res, err := svc.UploadImage(context.Background(), UploadFile{
		Name: "photo.png", ContentType: "image/png", Data: pngBytes(t),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "listings/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "https://bucket.test/"+res.Key, res.URL)
	assert.Equal(t, "https://bucket.test/"+res.Key+".thumb.jpg", res.ThumbnailURL)

	assert.Len(t, bucket.objects, 2)
	assert.Equal(t, "image/jpeg", bucket.types[res.Key+".thumb.jpg"])
}

func TestUploadImageRejectsUnsupportedType(t *testing.T) {
	svc := NewUploadService(newMemBucket(), "")

	_, err := svc.UploadImage(context.Background(), UploadFile{
		Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF"),
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestUploadImageRejectsOversize(t *testing.T) {
	svc := NewUploadService(newMemBucket(), "")

	_, err := svc.UploadImage(context.Background(), UploadFile{
		Name: "big.png", ContentType: "image/png", Data: make([]byte, MaxImageBytes+1),
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestUploadImageRejectsCorruptBeforeStoring(t *testing.T) {
	bucket := newMemBucket()
	svc := NewUploadService(bucket, "")

	_, err := svc.UploadImage(context.Background(), UploadFile{
		Name: "broken.png", ContentType: "image/png", Data: []byte("not a png"),
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
	assert.Empty(t, bucket.objects, "nothing may hit the bucket for a corrupt image")
}

func TestUploadWebpSkipsThumbnail(t *testing.T) {
	bucket := newMemBucket()
	svc := NewUploadService(bucket, "")

	res, err := svc.UploadImage(context.Background(), UploadFile{
		Name: "pic.webp", ContentType: "image/webp", Data: []byte("RIFF....WEBP"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.ThumbnailURL)
	assert.Len(t, bucket.objects, 1)
}

func TestUploadImagesBatchLimitAndAbort(t *testing.T) {
	bucket := newMemBucket()
	svc := NewUploadService(bucket, "")
	ctx := context.Background()

	tooMany := make([]UploadFile, MaxImageFiles+1)
	_, err := svc.UploadImages(ctx, tooMany)
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)

	good := pngBytes(t)
	_, err = svc.UploadImages(ctx, []UploadFile{
		{Name: "ok.png", ContentType: "image/png", Data: good},
		{Name: "bad.png", ContentType: "image/png", Data: []byte("junk")},
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "bad.png")
}
