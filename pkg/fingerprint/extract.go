package fingerprint

import (
	"bytes"
	"context"
	"errors"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Extraction failures. ErrNoSubjectDetected is user-actionable (retake the
// photo); ErrUndecodable is a plain bad input.
var (
	ErrUndecodable       = errors.New("image cannot be decoded")
	ErrNoSubjectDetected = errors.New("no subject detected in image")
)

// Extractor turns raw encoded image bytes into a fingerprint. Extraction is
// deterministic for identical input bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Fingerprint, error)
}

// HashExtractor produces hash-kind fingerprints locally, without any
// external backend. It computes all three perceptual hashes per image: a
// single hash family is fragile to a single kind of variation (crop,
// lighting, blur), while the comparator can later pick the best-agreeing
// family per pair.
type HashExtractor struct{}

func NewHashExtractor() *HashExtractor {
	return &HashExtractor{}
}

// Extract decodes, canonicalizes and hashes the image. Undecodable bytes
// yield ErrUndecodable.
func (e *HashExtractor) Extract(_ context.Context, data []byte) (*Fingerprint, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUndecodable
	}

	canonical := canonicalize(img)
	fp := NewHashSet(map[string]BitString{
		AlgPHash:   perceptualHash(canonical),
		AlgDHash:   differenceHash(canonical),
		AlgAverage: averageHash(canonical),
	})
	return &fp, nil
}

// Decodable reports whether data parses as a supported raster image. Used
// by the embedding extractor to distinguish undecodable input from a photo
// with no detectable subject before calling the remote backend.
func Decodable(data []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil
}
