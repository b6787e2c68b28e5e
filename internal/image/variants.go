// Package image derives the fixed variant sets for uploaded bitmaps and
// publishes them to blob storage at deterministic paths.
package image

import (
	"net/url"
	"strings"
)

// Kind selects which variant matrix an upload goes through.
type Kind string

const (
	KindStoreLogo  Kind = "store-logo"
	KindStoreCover Kind = "store-cover"
	KindMenu       Kind = "menu"
)

// VariantDefinition fixes one derivative's dimensions, quality and encoding.
type VariantDefinition struct {
	Key     string
	Width   int
	Height  int
	Quality int
	Format  string
}

type kindConfig struct {
	Bucket         string
	HeroKey        string
	RootPath       string
	GroupByStoreID bool
	Variants       []VariantDefinition
}

// The variant matrix is contract: dimensions, qualities and formats are not
// tunable per call.
var variantConfig = map[Kind]kindConfig{
	KindStoreLogo: {
		Bucket:   "store-logos",
		HeroKey:  "hero",
		RootPath: "logos",
		Variants: []VariantDefinition{
			{Key: "hero", Width: 512, Height: 512, Quality: 80, Format: "webp"},
			{Key: "medium", Width: 256, Height: 256, Quality: 75, Format: "webp"},
			{Key: "thumb", Width: 128, Height: 128, Quality: 70, Format: "webp"},
		},
	},
	KindStoreCover: {
		Bucket:   "store-logos",
		HeroKey:  "hero",
		RootPath: "covers",
		Variants: []VariantDefinition{
			{Key: "hero", Width: 1920, Height: 1080, Quality: 82, Format: "webp"},
			{Key: "large", Width: 1280, Height: 720, Quality: 78, Format: "webp"},
			{Key: "medium", Width: 960, Height: 540, Quality: 75, Format: "webp"},
			{Key: "thumb", Width: 640, Height: 360, Quality: 72, Format: "webp"},
		},
	},
	KindMenu: {
		Bucket:         "menu-images",
		HeroKey:        "hero",
		GroupByStoreID: true,
		Variants: []VariantDefinition{
			{Key: "hero", Width: 1920, Height: 1080, Quality: 82, Format: "webp"},
			{Key: "detail", Width: 1280, Height: 720, Quality: 78, Format: "webp"},
			{Key: "card", Width: 960, Height: 540, Quality: 75, Format: "webp"},
			{Key: "thumb", Width: 480, Height: 270, Quality: 70, Format: "webp"},
		},
	},
}

// ParseKind validates a kind string from the wire.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := variantConfig[k]; !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

// VariantKeys returns the ordered variant keys for a kind.
func VariantKeys(kind Kind) []string {
	cfg := variantConfig[kind]
	keys := make([]string, len(cfg.Variants))
	for i, v := range cfg.Variants {
		keys[i] = v.Key
	}
	return keys
}

// HeroKey returns the canonical variant key for a kind.
func HeroKey(kind Kind) string {
	return variantConfig[kind].HeroKey
}

func extensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	default:
		return format
	}
}

// SwapVariantURL derives a sibling variant's URL from any variant URL by
// replacing the filename while keeping the extension and the rest of the
// path. On a malformed URL the input is returned unchanged.
func SwapVariantURL(rawURL, targetKey string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	segments := strings.Split(parsed.Path, "/")
	if len(segments) == 0 {
		return rawURL
	}
	filename := segments[len(segments)-1]
	if filename == "" {
		return rawURL
	}
	dot := strings.LastIndex(filename, ".")
	if dot == -1 {
		segments[len(segments)-1] = targetKey
	} else {
		segments[len(segments)-1] = targetKey + filename[dot:]
	}
	parsed.Path = strings.Join(segments, "/")
	return parsed.String()
}

// basePathFromURL recovers the asset base path from a variant URL by locating
// the bucket marker in the path and stripping the filename. An empty result
// means the URL does not match the expected layout.
func basePathFromURL(rawURL string, kind Kind) string {
	cfg := variantConfig[kind]
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	marker := cfg.Bucket + "/"
	idx := strings.Index(parsed.Path, marker)
	if idx == -1 {
		return ""
	}
	storagePath := parsed.Path[idx+len(marker):]
	segments := strings.Split(storagePath, "/")
	if len(segments) < 2 {
		return ""
	}
	return strings.Join(segments[:len(segments)-1], "/")
}

func extensionFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(parsed.Path, "/")
	filename := segments[len(segments)-1]
	dot := strings.LastIndex(filename, ".")
	if dot == -1 || dot == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[dot+1:])
}
