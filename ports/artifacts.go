package ports

import "context"

// ArtifactStore uploads generated artifacts (reports, annotated
// workbooks) to wherever the calling system keeps them. Cloud storage is
// an external collaborator; only the byte-stream contract lives here.
type ArtifactStore interface {
	PutArtifact(ctx context.Context, name, contentType string, data []byte) (string, error)
}
