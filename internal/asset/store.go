package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"github.com/inamate/canvas-go/internal/typeid"
)

var (
	ErrNotFound     = errors.New("asset not found")
	ErrInvalidImage = errors.New("invalid image")
)

// Decode reads a PNG, JPEG, WebP or TGA image. TGA has no signature, so it
// is the fallback once the other formats' magic bytes fail to match.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	var (
		img    image.Image
		format string
	)
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		format = "png"
		img, err = png.Decode(bytes.NewReader(data))
	case bytes.HasPrefix(data, []byte{0xff, 0xd8}):
		format = "jpeg"
		img, err = jpeg.Decode(bytes.NewReader(data))
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		format = "webp"
		img, err = nativewebp.Decode(bytes.NewReader(data))
	default:
		format = "tga"
		img, err = tga.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, format, fmt.Errorf("%w: %s: %w", ErrInvalidImage, format, err)
	}
	return img, format, nil
}

// Store keeps assets as PNG files named by their ID and caches decoded
// bitmaps for rendering.
type Store struct {
	dir string

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Store{dir: dir, cache: make(map[string]image.Image)}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes img as a new PNG asset and returns its ID.
func (s *Store) Save(img image.Image) (string, error) {
	id := typeid.NewAssetID()
	filePath := filepath.Join(s.dir, id+".png")

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("encode png: %w", err)
	}

	s.mu.Lock()
	s.cache[id] = img
	s.mu.Unlock()
	return id, nil
}

// LoadImage resolves an image shape's src. It accepts a bare asset ID or
// the asset URL returned from an upload.
func (s *Store) LoadImage(src string) (image.Image, error) {
	id := strings.TrimSuffix(path.Base(src), ".png")
	if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}

	s.mu.Lock()
	img, ok := s.cache[id]
	s.mu.Unlock()
	if ok {
		return img, nil
	}

	f, err := os.Open(filepath.Join(s.dir, id+".png"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	img, err = png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", id, err)
	}

	s.mu.Lock()
	s.cache[id] = img
	s.mu.Unlock()
	return img, nil
}

// Delete removes an asset file from disk.
func (s *Store) Delete(assetID string) error {
	s.mu.Lock()
	delete(s.cache, assetID)
	s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, assetID+".png")); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, assetID)
	}
	return nil
}
