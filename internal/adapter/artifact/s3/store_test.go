package s3

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/domain"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestStore_Upload(t *testing.T) {
	fake := &fakeS3{}
	s := newWithClient(fake, Options{
		Bucket:        "renders",
		Region:        "auto",
		PublicBaseURL: "https://cdn.example.com/",
		PublicRead:    true,
	})

	url, err := s.Upload(context.Background(), writeFile(t, "render.webm", "vp9"), "arc/7/render.webm")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/arc/7/render.webm", url)
	assert.Equal(t, "renders", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "arc/7/render.webm", aws.ToString(fake.input.Key))
	assert.Equal(t, "video/webm", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, types.ObjectCannedACLPublicRead, fake.input.ACL)
	assert.Equal(t, "vp9", string(fake.body))
}

func TestStore_UploadFailure(t *testing.T) {
	s := newWithClient(&fakeS3{err: errors.New("AccessDenied")}, Options{Bucket: "b"})

	_, err := s.Upload(context.Background(), writeFile(t, "render.mp4", "x"), "a/1/render.mp4")
	var upErr *domain.UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "a/1/render.mp4", upErr.Key)

	_, err = s.Upload(context.Background(), "/nonexistent.mp4", "k")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"aws virtual host", Options{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com/k/x.mp4"},
		{"aws path style", Options{Bucket: "b", Region: "eu-west-1", PathStyle: true}, "https://s3.eu-west-1.amazonaws.com/b/k/x.mp4"},
		{"custom endpoint", Options{Bucket: "b", Endpoint: "http://minio:9000/"}, "http://minio:9000/b/k/x.mp4"},
		{"public base", Options{Bucket: "b", Endpoint: "http://minio:9000", PublicBaseURL: "https://cdn"}, "https://cdn/k/x.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newWithClient(&fakeS3{}, tt.opts).PublicURL("k/x.mp4"))
		})
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/x-matroska", contentType("a.mkv"))
	assert.Equal(t, "image/jpeg", contentType("thumbnail.jpg"))
	assert.Equal(t, "application/octet-stream", contentType("blob"))
}
