// Package storage holds template and output blobs behind a small port with
// a Cloud Storage adapter and a local-directory adapter.
package storage

import (
	"context"
	"fmt"
	"time"
)

// Store reads and writes opaque blobs by object name. Object names use
// forward slashes ("templates/...", "outputs/...").
type Store interface {
	Put(ctx context.Context, objectName, contentType string, data []byte) error
	Get(ctx context.Context, objectName string) ([]byte, error)
	Delete(ctx context.Context, objectName string) error
}

// TemplateObjectName places an uploaded template under a per-upload prefix
// so equal filenames never collide.
func TemplateObjectName(uploadID, filename string) string {
	timestamp := time.Now().Unix()
	return fmt.Sprintf("templates/%s/%d_%s", uploadID, timestamp, filename)
}
