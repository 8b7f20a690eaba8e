package faceapi

import (
	"context"
	"fmt"
	"net/http"

	"photoevent/pkg/fingerprint"
)

// EmbeddingExtractor produces embedding fingerprints by delegating face
// detection and encoding to the face API. It implements
// fingerprint.Extractor, so services depend only on the interface and
// stay unaware of which strategy is deployed.
type EmbeddingExtractor struct {
	client *FaceClient
}

func NewEmbeddingExtractor(client *FaceClient) *EmbeddingExtractor {
	return &EmbeddingExtractor{client: client}
}

// Extract decodes nothing locally beyond a format sniff; the heavy
// lifting happens in the face API. When the image contains several
// faces the largest bounding box wins, matching how attendees frame a
// selfie.
func (e *EmbeddingExtractor) Extract(ctx context.Context, data []byte) (*fingerprint.Fingerprint, error) {
	if !fingerprint.Decodable(data) {
		return nil, fingerprint.ErrUndecodable
	}

	mimeType := http.DetectContentType(data)
	resp, err := e.client.ExtractFacesFromBytes(ctx, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("face API extraction: %w", err)
	}

	if len(resp.Faces) == 0 {
		return nil, fingerprint.ErrNoSubjectDetected
	}

	best := resp.Faces[0]
	bestArea := best.BboxWidth * best.BboxHeight
	for _, face := range resp.Faces[1:] {
		if area := face.BboxWidth * face.BboxHeight; area > bestArea {
			best = face
			bestArea = area
		}
	}

	fp := fingerprint.NewEmbedding(best.Embedding)
	if !fp.Valid() {
		return nil, fmt.Errorf("face API returned empty embedding")
	}
	return &fp, nil
}
