// Package storage uploads published page output to object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// ErrStorageNotConfigured is returned by publish operations when no bucket is set.
var ErrStorageNotConfigured = errors.New("storage not configured")

// Object is one published file.
type Object struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	ETag        string `json:"etag,omitempty"`
}

// Publisher stores published output under a site prefix.
type Publisher interface {
	CheckConnection(ctx context.Context) error
	Put(ctx context.Context, key string, body []byte, contentType string) (*Object, error)
	// PageKey returns the key of a file belonging to a published page.
	PageKey(slug, name string) string
}

// pageKey builds {prefix}/pages/{slug}/{name}.
func pageKey(prefix, slug, name string) string {
	return path.Join(strings.Trim(prefix, "/"), "pages", sanitizeSegment(slug), sanitizeSegment(name))
}

func sanitizeSegment(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "..", "-")
	if s == "" {
		return "_"
	}
	return s
}

// BreakpointFile is the file name a breakpoint's HTML is published as.
func BreakpointFile(bp page.Breakpoint) string {
	return fmt.Sprintf("%s.html", bp)
}
