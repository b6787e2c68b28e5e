package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"strings"

	// Decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"tableqr-backend/internal/blob"
)

// Variants are immutable once published; a year of caching is safe.
const cacheControl = "max-age=31536000"

// UploadResult carries the canonical hero URL plus every variant URL.
type UploadResult struct {
	HeroURL     string            `json:"heroUrl"`
	VariantURLs map[string]string `json:"variantUrls"`
}

// Pipeline derives and publishes the full variant set for uploaded bitmaps.
type Pipeline struct {
	blob blob.Store
}

// NewPipeline creates a pipeline backed by the given blob store.
func NewPipeline(b blob.Store) *Pipeline {
	return &Pipeline{blob: b}
}

// Upload validates the source, retires the previous asset's variants when
// replacing, then renders and publishes every variant of the kind. The hero
// variant's URL is mandatory in the result. A failure mid-publication removes
// the variants already uploaded; a partial set is never left published.
func (p *Pipeline) Upload(ctx context.Context, kind Kind, data []byte, contentType, storeID, previousURL string) (*UploadResult, error) {
	cfg, ok := variantConfig[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	if err := Validate(int64(len(data)), contentType); err != nil {
		return nil, err
	}
	if cfg.GroupByStoreID && storeID == "" {
		return nil, fmt.Errorf("%w: storeId is required for %s uploads", ErrValidation, kind)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable image: %v", ErrValidation, err)
	}

	// Retiring the old asset is best effort; a missing or broken previous
	// asset must not block the new upload.
	if previousURL != "" {
		if err := p.removeAsset(ctx, previousURL, kind); err != nil {
			log.Printf("Warning: failed to remove previous %s asset: %v", kind, err)
		}
	}

	assetID := uuid.NewString()
	var pathSegments []string
	if cfg.RootPath != "" {
		pathSegments = append(pathSegments, cfg.RootPath)
	}
	if cfg.GroupByStoreID {
		pathSegments = append(pathSegments, storeID)
	}
	pathSegments = append(pathSegments, assetID)
	basePath := strings.Join(pathSegments, "/")

	variantURLs := make(map[string]string, len(cfg.Variants))
	var published []string
	for _, def := range cfg.Variants {
		encoded, err := renderVariant(src, def)
		if err != nil {
			p.abortUpload(ctx, cfg.Bucket, kind, published)
			return nil, fmt.Errorf("%w: variant %s: %v", ErrStorageUpload, def.Key, err)
		}

		objectPath := fmt.Sprintf("%s/%s.%s", basePath, def.Key, extensionForFormat(def.Format))
		publicURL, err := p.blob.Put(ctx, blob.Object{
			Bucket:       cfg.Bucket,
			Path:         objectPath,
			Data:         encoded,
			ContentType:  "image/" + def.Format,
			CacheControl: cacheControl,
		})
		if err != nil {
			p.abortUpload(ctx, cfg.Bucket, kind, published)
			return nil, fmt.Errorf("%w: variant %s: %v", ErrStorageUpload, def.Key, err)
		}
		published = append(published, objectPath)
		variantURLs[def.Key] = publicURL
	}

	heroURL, ok := variantURLs[cfg.HeroKey]
	if !ok || heroURL == "" {
		return nil, ErrAssetIntegrity
	}

	return &UploadResult{HeroURL: heroURL, VariantURLs: variantURLs}, nil
}

// Delete removes every variant of the asset a URL belongs to. A URL that does
// not match the expected storage layout is a no-op.
func (p *Pipeline) Delete(ctx context.Context, rawURL string, kind Kind) error {
	if _, ok := variantConfig[kind]; !ok {
		return ErrUnknownKind
	}
	if err := p.removeAsset(ctx, rawURL, kind); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUpload, err)
	}
	return nil
}

// abortUpload retires the variants a failed upload already published, so a
// partial set never stays visible. Cleanup is best effort; the upload error
// is what the caller sees either way.
func (p *Pipeline) abortUpload(ctx context.Context, bucket string, kind Kind, published []string) {
	if len(published) == 0 {
		return
	}
	if err := p.blob.Remove(ctx, bucket, published); err != nil {
		log.Printf("Warning: failed to clean up aborted %s upload: %v", kind, err)
	}
}

// removeAsset derives the base path from a variant URL and deletes every
// variant file under it, covering both the URL's extension and the kind's
// default one.
func (p *Pipeline) removeAsset(ctx context.Context, rawURL string, kind Kind) error {
	cfg := variantConfig[kind]
	basePath := basePathFromURL(rawURL, kind)
	if basePath == "" {
		return nil
	}

	extensions := map[string]struct{}{}
	if ext := extensionFromURL(rawURL); ext != "" {
		extensions[ext] = struct{}{}
	}
	if len(cfg.Variants) > 0 {
		extensions[extensionForFormat(cfg.Variants[0].Format)] = struct{}{}
	}

	var targets []string
	for _, def := range cfg.Variants {
		for ext := range extensions {
			targets = append(targets, fmt.Sprintf("%s/%s.%s", basePath, def.Key, ext))
		}
	}
	if len(targets) == 0 {
		return nil
	}
	return p.blob.Remove(ctx, cfg.Bucket, targets)
}

// renderVariant resizes the source with a centered cover fit, never scaling
// beyond the source dimensions, and encodes at the variant's quality.
func renderVariant(src image.Image, def VariantDefinition) ([]byte, error) {
	bounds := src.Bounds()
	width, height := def.Width, def.Height
	if bounds.Dx() < width || bounds.Dy() < height {
		scale := math.Min(
			float64(bounds.Dx())/float64(width),
			float64(bounds.Dy())/float64(height),
		)
		width = int(math.Max(1, math.Floor(float64(width)*scale)))
		height = int(math.Max(1, math.Floor(float64(height)*scale)))
	}

	filled := imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	switch def.Format {
	case "webp":
		if err := webp.Encode(&buf, filled, &webp.Options{Quality: float32(def.Quality)}); err != nil {
			return nil, fmt.Errorf("webp encode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported variant format %q", def.Format)
	}
	return buf.Bytes(), nil
}
