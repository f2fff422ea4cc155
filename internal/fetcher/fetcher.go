// Package fetcher downloads government open-data files over HTTP and
// prepares them for parsing: zip member extraction and legacy-encoding
// transcoding.
package fetcher

import (
	"context"
	"io"
)

// Fetcher retrieves remote files.
type Fetcher interface {
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)
	DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error)
}
