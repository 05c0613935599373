// Package catalog holds the glasses frames that can be tried on, keyed by
// style tag.
package catalog

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownStyle is returned by Get for tags without a frame.
var ErrUnknownStyle = errors.New("unknown frame style")

// Styles are the builtin frame tags.
var Styles = []string{"round", "square", "rectangle", "aviators", "cat-eye", "browline", "geometric", "oval"}

// Catalog maps style tags to frame images. Safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	frames map[string]image.Image
}

// Builtin returns a catalog with every builtin style rasterised.
func Builtin() *Catalog {
	c := &Catalog{frames: make(map[string]image.Image, len(frameSpecs))}
	for tag, spec := range frameSpecs {
		c.frames[tag] = rasterize(spec)
	}
	return c
}

// LoadDir adds every <tag>.png in dir, replacing builtins with the same tag.
// It returns the tags that were loaded.
func (c *Catalog) LoadDir(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("listing frames: %w", err)
	}

	loaded := make(map[string]image.Image, len(matches))
	for _, path := range matches {
		img, err := loadPNG(path)
		if err != nil {
			return nil, err
		}
		tag := Normalize(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if tag == "" {
			continue
		}
		loaded[tag] = img
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	tags := make([]string, 0, len(loaded))
	for tag, img := range loaded {
		c.frames[tag] = img
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding frame %s: %w", filepath.Base(path), err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("frame %s is empty", filepath.Base(path))
	}
	return img, nil
}

// Get returns the frame for tag. Tags are matched after Normalize.
func (c *Catalog) Get(tag string) (image.Image, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.frames[Normalize(tag)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, tag)
	}
	return img, nil
}

// Has reports whether tag resolves to a frame.
func (c *Catalog) Has(tag string) bool {
	_, err := c.Get(tag)
	return err == nil
}

// Tags returns all known tags, sorted.
func (c *Catalog) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tags := make([]string, 0, len(c.frames))
	for tag := range c.frames {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// RemoveDiacritics removes diacritical marks from a string (e.g., "Očka" -> "Ocka").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Normalize turns a user supplied style name into a tag: lowercase, no
// diacritics, words joined by dashes ("Cat Eye" -> "cat-eye").
func Normalize(tag string) string {
	tag = strings.ToLower(RemoveDiacritics(strings.TrimSpace(tag)))
	fields := strings.FieldsFunc(tag, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	return strings.Join(fields, "-")
}
