package aws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"linx/social-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu       sync.Mutex
	requests []string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.mu.Unlock()

	if !strings.HasPrefix(r.URL.Path, "/media") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBucket) seen(req string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range b.requests {
		if r == req {
			return true
		}
	}

	return false
}

func newTestS3(t *testing.T, bucket string) (*S3Client, *fakeBucket, error) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	fake := &fakeBucket{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewS3(context.Background(), config.AWS{
		Region:          "us-east-1",
		Bucket:          bucket,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        srv.URL,
	})

	return client, fake, err
}

func TestNewS3ChecksBucket(t *testing.T) {
	_, fake, err := newTestS3(t, "media")
	require.NoError(t, err)
	assert.True(t, fake.seen("HEAD /media"))

	_, _, err = newTestS3(t, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestPresign(t *testing.T) {
	client, _, err := newTestS3(t, "media")
	require.NoError(t, err)

	ctx := context.Background()

	put, err := client.PresignPut(ctx, "uploads/u1/a.png", "image/png", 1024, 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, put, "/media/uploads/u1/a.png")
	assert.Contains(t, put, "X-Amz-Expires=300")
	assert.Contains(t, put, "X-Amz-Signature=")

	get, err := client.PresignGet(ctx, "uploads/u1/a.png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, get, "/media/uploads/u1/a.png")
	assert.Contains(t, get, "X-Amz-Expires=3600")
}

func TestDeleteObject(t *testing.T) {
	client, fake, err := newTestS3(t, "media")
	require.NoError(t, err)

	require.NoError(t, client.DeleteObject(context.Background(), "uploads/u1/a.png"))
	assert.True(t, fake.seen("DELETE /media/uploads/u1/a.png"))
}
