package refimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"resume-studio/internal/llm"
	"resume-studio/internal/shared/storage/object"
	"resume-studio/internal/shared/util"
)

// DefaultMaxBytes caps a reference image at 10 MiB.
const DefaultMaxBytes int64 = 10 << 20

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
	ErrInvalidDataURL   = errors.New("invalid data url")
)

var allowedTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
	"image/heic": {},
	"image/heif": {},
	"image/bmp":  {},
}

// Ref points at a staged reference image.
type Ref struct {
	Key       string `json:"-"`
	FileName  string `json:"fileName"`
	MIMEType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// FromBytes sniffs data and accepts raster images only.
func FromBytes(data []byte, maxBytes int64) (llm.Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(data) == 0 {
		return llm.Image{}, ErrUnsupportedImage
	}
	if int64(len(data)) > maxBytes {
		return llm.Image{}, ErrImageTooLarge
	}
	mimeType, ok := sniff(data)
	if !ok {
		return llm.Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}
	return llm.Image{MIMEType: mimeType, Data: data}, nil
}

// DecodeDataURL decodes a base64 data URL such as "data:image/png;base64,...".
// The declared media type is ignored in favor of the sniffed one.
func DecodeDataURL(raw string, maxBytes int64) (llm.Image, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return llm.Image{}, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(raw[len("data:"):], ",")
	if !ok || !strings.HasSuffix(strings.ToLower(header), ";base64") {
		return llm.Image{}, ErrInvalidDataURL
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return llm.Image{}, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return llm.Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return FromBytes(data, maxBytes)
}

// IsAllowed reports whether mimeType is an accepted raster type.
func IsAllowed(mimeType string) bool {
	_, ok := allowedTypes[mimeType]
	return ok
}

func sniff(data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if IsAllowed(m.String()) {
			return m.String(), true
		}
	}
	return mt.String(), false
}

// Stager keeps reference images in an object store between upload and use.
type Stager struct {
	Objects  object.ObjectStore
	MaxBytes int64
}

// Stage validates img and stores it under the owner's namespace. A file name
// that cannot be sanitized is replaced by a generic one.
func (s *Stager) Stage(ctx context.Context, owner, fileName string, img llm.Image) (Ref, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		name = "reference" + extension(img.MIMEType)
	}
	fileName = name
	key, size, _, err := s.Objects.Save(ctx, owner, fileName, bytes.NewReader(img.Data))
	if err != nil {
		return Ref{}, fmt.Errorf("stage image: %w", err)
	}
	return Ref{Key: key, FileName: fileName, MIMEType: img.MIMEType, SizeBytes: size}, nil
}

// Load reads a staged image back.
func (s *Stager) Load(ctx context.Context, ref Ref) (llm.Image, error) {
	rc, err := s.Objects.Open(ctx, ref.Key)
	if err != nil {
		return llm.Image{}, fmt.Errorf("open staged image: %w", err)
	}
	defer rc.Close()

	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return llm.Image{}, fmt.Errorf("read staged image: %w", err)
	}
	if int64(len(data)) > limit {
		return llm.Image{}, ErrImageTooLarge
	}
	return llm.Image{MIMEType: ref.MIMEType, Data: data}, nil
}

// Discard removes a staged image.
func (s *Stager) Discard(ctx context.Context, ref Ref) error {
	if ref.Key == "" {
		return nil
	}
	return s.Objects.Delete(ctx, ref.Key)
}

func extension(mimeType string) string {
	if ext := mimetype.Lookup(mimeType); ext != nil {
		return ext.Extension()
	}
	return ""
}
