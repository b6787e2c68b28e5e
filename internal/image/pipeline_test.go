package image

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableqr-backend/internal/blob"
)

// testPNG renders a small gradient and encodes it as PNG bytes.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpload_StoreLogoVariantCompleteness(t *testing.T) {
	mem := blob.NewMemory("https://cdn.test")
	p := NewPipeline(mem)

	result, err := p.Upload(context.Background(), KindStoreLogo, testPNG(t, 64, 64), "image/png", "", "")
	require.NoError(t, err)

	require.Len(t, result.VariantURLs, 3)
	seen := map[string]struct{}{}
	for _, key := range []string{"hero", "medium", "thumb"} {
		url, ok := result.VariantURLs[key]
		require.True(t, ok, "missing variant %s", key)
		assert.Contains(t, url, "/store-logos/logos/")
		assert.True(t, strings.HasSuffix(url, key+".webp"))

		_, dup := seen[url]
		assert.False(t, dup, "variant URLs must be distinct")
		seen[url] = struct{}{}
	}
	assert.Equal(t, result.VariantURLs["hero"], result.HeroURL)
	assert.Equal(t, 3, mem.Len())
}

func TestUpload_MenuGroupsByStore(t *testing.T) {
	mem := blob.NewMemory("https://cdn.test")
	p := NewPipeline(mem)
	src := testPNG(t, 64, 64)

	// storeId is mandatory for menu uploads.
	_, err := p.Upload(context.Background(), KindMenu, src, "image/png", "", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, mem.Len())

	result, err := p.Upload(context.Background(), KindMenu, src, "image/png", "42", "")
	require.NoError(t, err)
	require.Len(t, result.VariantURLs, 4)
	for _, key := range []string{"hero", "detail", "card", "thumb"} {
		assert.Contains(t, result.VariantURLs[key], "/menu-images/42/")
	}
}

// faultyBlob accepts a limited number of Puts, then fails.
type faultyBlob struct {
	*blob.Memory
	capacity int
	puts     int
}

func (f *faultyBlob) Put(ctx context.Context, obj blob.Object) (string, error) {
	f.puts++
	if f.puts > f.capacity {
		return "", errors.New("storage unavailable")
	}
	return f.Memory.Put(ctx, obj)
}

func TestUpload_AbortedUploadLeavesNothingPublished(t *testing.T) {
	mem := blob.NewMemory("https://cdn.test")
	fb := &faultyBlob{Memory: mem, capacity: 1}
	p := NewPipeline(fb)

	_, err := p.Upload(context.Background(), KindStoreLogo, testPNG(t, 64, 64), "image/png", "", "")
	require.ErrorIs(t, err, ErrStorageUpload)
	assert.Zero(t, mem.Len(), "variants published before the failure must be removed")
}

func TestUpload_ReplacementRetiresOldVariants(t *testing.T) {
	mem := blob.NewMemory("https://cdn.test")
	p := NewPipeline(mem)
	src := testPNG(t, 64, 64)
	ctx := context.Background()

	first, err := p.Upload(ctx, KindStoreLogo, src, "image/png", "", "")
	require.NoError(t, err)
	require.Equal(t, 3, mem.Len())

	second, err := p.Upload(ctx, KindStoreLogo, src, "image/png", "", first.HeroURL)
	require.NoError(t, err)
	assert.NotEqual(t, first.HeroURL, second.HeroURL)

	// Only the new asset's files remain.
	assert.Equal(t, 3, mem.Len())
	oldPath := strings.TrimPrefix(first.HeroURL, "https://cdn.test/store-logos/")
	_, exists := mem.Get("store-logos", oldPath)
	assert.False(t, exists, "old hero variant should be gone")
}

func TestUpload_ValidationBeforeStorage(t *testing.T) {
	mem := blob.NewMemory("https://cdn.test")
	p := NewPipeline(mem)
	ctx := context.Background()

	// Oversized file.
	huge := make([]byte, MaxUploadBytes+1)
	_, err := p.Upload(ctx, KindStoreLogo, huge, "image/png", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	// Unsupported MIME type.
	_, err = p.Upload(ctx, KindStoreLogo, testPNG(t, 8, 8), "image/bmp", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	// Body that is not an image at all.
	_, err = p.Upload(ctx, KindStoreLogo, []byte("not an image"), "image/png", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	// Unknown kind.
	_, err = p.Upload(ctx, Kind("banner"), testPNG(t, 8, 8), "image/png", "", "")
	assert.ErrorIs(t, err, ErrUnknownKind)

	assert.Zero(t, mem.Len(), "no storage call may happen on validation failure")
}

func TestDelete(t *testing.T) {
	mem := blob.NewMemory("https://cdn.test")
	p := NewPipeline(mem)
	ctx := context.Background()

	result, err := p.Upload(ctx, KindStoreLogo, testPNG(t, 64, 64), "image/png", "", "")
	require.NoError(t, err)
	require.Equal(t, 3, mem.Len())

	require.NoError(t, p.Delete(ctx, result.HeroURL, KindStoreLogo))
	assert.Zero(t, mem.Len())

	// A URL outside the expected layout is a no-op, not an error.
	assert.NoError(t, p.Delete(ctx, "https://elsewhere.test/foo/bar.webp", KindStoreLogo))

	assert.ErrorIs(t, p.Delete(ctx, result.HeroURL, Kind("banner")), ErrUnknownKind)
}

func TestRenderVariant_NeverUpscales(t *testing.T) {
	src := stdimage.NewRGBA(stdimage.Rect(0, 0, 64, 64))
	def := VariantDefinition{Key: "hero", Width: 512, Height: 512, Quality: 80, Format: "webp"}

	encoded, err := renderVariant(src, def)
	require.NoError(t, err)

	decoded, _, err := stdimage.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 64)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), 64)
}
