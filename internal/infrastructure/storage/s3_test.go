package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

type fakeS3 struct {
	puts    map[string]string
	types   map[string]string
	headErr error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = string(body)
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestS3PublisherPut(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}, types: map[string]string{}}
	p := newS3Publisher(fake, "bucket", "/sites/acme/")

	key := p.PageKey("about", BreakpointFile(page.Mobile))
	assert.Equal(t, "sites/acme/pages/about/mobile.html", key)

	obj, err := p.Put(context.Background(), key, []byte("<html></html>"), "text/html; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "abc", obj.ETag)
	assert.Equal(t, 13, obj.Size)
	assert.Equal(t, "<html></html>", fake.puts[key])
	assert.Equal(t, "text/html; charset=utf-8", fake.types[key])
}

func TestS3PublisherCheckConnection(t *testing.T) {
	fake := &fakeS3{headErr: errors.New("forbidden")}
	err := newS3Publisher(fake, "bucket", "").CheckConnection(context.Background())
	assert.ErrorContains(t, err, "bucket")
}

func TestPageKeyCannotEscapePrefix(t *testing.T) {
	assert.Equal(t, "sites/x/pages/--etc/-passwd", pageKey("sites/x", "../etc", "/passwd"))
	assert.Equal(t, "sites/x/pages/_/desktop.html", pageKey("sites/x", "", "desktop.html"))
}

func TestNoopPublisher(t *testing.T) {
	_, err := NewNoopPublisher("").Put(context.Background(), "k", nil, "text/html")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	_, err = NewS3Publisher(context.Background(), S3Config{})
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}
