package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

var ErrImageStoreDisabled = errors.New("image uploads are disabled on this server")

// ImageStore puts image bytes into external blob storage and returns a URL
// that browsers can load directly.
type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, data io.Reader) (string, error)
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary, folder string) *CloudinaryStore {
	return &CloudinaryStore{cld: cld, folder: folder}
}

func (s *CloudinaryStore) Upload(ctx context.Context, name, contentType string, data io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: strings.TrimSuffix(name, path.Ext(name)),
		Tags:     []string{"estate"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image %s: %s", name, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("failed to upload image %s: empty url in response", name)
	}
	return res.SecureURL, nil
}

// SupabaseStore keeps images in a public Supabase Storage bucket.
type SupabaseStore struct {
	client *supabase.Client
	bucket string
	folder string
}

func NewSupabaseStore(client *supabase.Client, bucket, folder string) *SupabaseStore {
	return &SupabaseStore{client: client, bucket: bucket, folder: folder}
}

func (s *SupabaseStore) Upload(ctx context.Context, name, contentType string, data io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectPath := path.Join(s.folder, name)
	opts := storage_go.FileOptions{ContentType: &contentType}
	if _, err := s.client.Storage.UploadFile(s.bucket, objectPath, data, opts); err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", objectPath, err)
	}
	res := s.client.Storage.GetPublicUrl(s.bucket, objectPath)
	if res.SignedURL == "" {
		return "", fmt.Errorf("failed to resolve public url for %s", objectPath)
	}
	return res.SignedURL, nil
}

type DisabledImageStore struct{}

func (DisabledImageStore) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrImageStoreDisabled
}
