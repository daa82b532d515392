package storage

import "context"

// NoopPublisher is used when running without a bucket configured. Every upload
// fails with ErrStorageNotConfigured.
type NoopPublisher struct {
	prefix string
}

var _ Publisher = (*NoopPublisher)(nil)

// NewNoopPublisher creates a new noop publisher
func NewNoopPublisher(prefix string) *NoopPublisher {
	return &NoopPublisher{prefix: prefix}
}

// CheckConnection always succeeds for the noop publisher
func (p *NoopPublisher) CheckConnection(ctx context.Context) error {
	return nil
}

func (p *NoopPublisher) Put(ctx context.Context, key string, body []byte, contentType string) (*Object, error) {
	return nil, ErrStorageNotConfigured
}

func (p *NoopPublisher) PageKey(slug, name string) string {
	return pageKey(p.prefix, slug, name)
}
