package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"strings"

	"rigforge/internal/config"
	"rigforge/internal/featureflags"
	"rigforge/internal/models"
	"rigforge/internal/observability"
	"rigforge/internal/store"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
	_ "image/gif"
	_ "image/png"
)

const (
	DefaultImageMaxUploadSizeMB = 10
	MasterMaxSize               = 2048
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// UploadedImage describes a stored image: the canonical JPEG filename, its
// fetch URL, and the companion WebP variant name when one was produced.
type UploadedImage struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	WebPName string `json:"webpName,omitempty"`
}

type ImageService struct {
	store              *store.Store
	maxUploadSizeBytes int64
	flags              *featureflags.Manager
}

func NewImageService(st *store.Store, cfg *config.Config, flags *featureflags.Manager) *ImageService {
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	if cfg != nil && cfg.ImageMaxUploadSizeMB > 0 {
		maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
	}
	return &ImageService{
		store:              st,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
		flags:              flags,
	}
}

// Upload decodes a base64 (optionally data-URI wrapped) payload, validates it
// as an image, normalizes it to a bounded JPEG, and persists it under the
// given filename prefix. A WebP companion is written best-effort alongside.
func (s *ImageService) Upload(ctx context.Context, prefix, payload string) (*UploadedImage, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, models.NewValidationError("Image prefix is required")
	}
	raw, err := decodeBase64Payload(payload)
	if err != nil {
		return nil, models.NewValidationError("Invalid image data")
	}
	if len(raw) == 0 {
		return nil, models.NewValidationError("No image uploaded")
	}
	if int64(len(raw)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(raw)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)

	encodedJPG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name, err := s.store.SaveImage(ctx, prefix, encodedJPG)
	if err != nil {
		return nil, err
	}
	observability.ImageUploadsTotal.WithLabelValues(prefix).Inc()

	result := &UploadedImage{
		Name: name,
		URL:  s.store.ImageURL(name),
	}

	// WebP companion is an optimization; its failure never fails the upload.
	// The "webp_variants" flag allows switching it off if encoding misbehaves.
	if s.flags.Enabled("webp_variants", name, true) {
		if encodedWebP, werr := encodeWebP(master, WebPQuality); werr == nil {
			webpName := strings.TrimSuffix(name, ".jpg") + ".webp"
			if verr := s.store.SaveImageVariant(ctx, webpName, encodedWebP); verr == nil {
				result.WebPName = webpName
			}
		}
	}

	return result, nil
}

// ImageURL returns the fetch URL for a stored image filename.
func (s *ImageService) ImageURL(name string) string {
	return s.store.ImageURL(name)
}

func decodeBase64Payload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if idx := strings.Index(payload, ";base64,"); strings.HasPrefix(payload, "data:") && idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	if raw, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
