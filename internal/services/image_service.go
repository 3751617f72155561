package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const MaxImageSize = 2 << 20

// ImageFile is one uploaded file as received from the client.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type ImageService struct {
	store  helpers.ImageStore
	logger *slog.Logger
}

func NewImageService(store helpers.ImageStore, logger *slog.Logger) *ImageService {
	if store == nil {
		store = helpers.DisabledImageStore{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageService{store: store, logger: logger}
}

func validateImages(files []ImageFile) error {
	if len(files) == 0 {
		return apperrors.InvalidInput("at least one image is required", nil)
	}
	if len(files) > models.MaxListingImages {
		return apperrors.InvalidInput(fmt.Sprintf("you can only upload %d images per listing", models.MaxListingImages), nil)
	}
	for _, f := range files {
		if f.Size > MaxImageSize {
			return apperrors.InvalidInput(fmt.Sprintf("image %s exceeds the 2 MB limit", f.Name), nil)
		}
		if !strings.HasPrefix(f.ContentType, "image/") {
			return apperrors.InvalidInput(fmt.Sprintf("file %s is not an image", f.Name), nil)
		}
	}
	return nil
}

// Upload sends all files to the image store in parallel. The returned URLs
// keep the order of files; the first one is the cover. One failed upload
// fails the whole batch.
func (is *ImageService) Upload(ctx context.Context, ownerID primitive.ObjectID, files []ImageFile) ([]string, error) {
	if err := validateImages(files); err != nil {
		return nil, err
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			r, err := f.Open()
			if err != nil {
				return fmt.Errorf("open image %s: %w", f.Name, err)
			}
			defer r.Close()

			name := fmt.Sprintf("%s-%s%s", ownerID.Hex(), uuid.NewString(), strings.ToLower(path.Ext(f.Name)))
			url, err := is.store.Upload(gctx, name, f.ContentType, r)
			if err != nil {
				return fmt.Errorf("image %d (%s): %w", i+1, f.Name, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		is.logger.Error("image upload failed", "owner_id", ownerID.Hex(), "count", len(files), "error", err)
		if errors.Is(err, helpers.ErrImageStoreDisabled) {
			return nil, apperrors.Upstream(helpers.ErrImageStoreDisabled.Error(), err)
		}
		return nil, apperrors.Upstream("image upload failed, please retry the upload (2 MB max per image)", err)
	}
	return urls, nil
}
