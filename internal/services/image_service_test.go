package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func imageFile(name, contentType string, size int) ImageFile {
	data := bytes.Repeat([]byte{0xff}, size)
	return ImageFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(size),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestUploadKeepsOrder(t *testing.T) {
	store := &fakeImageStore{}
	is := NewImageService(store, nil)
	owner := primitive.NewObjectID()

	var files []ImageFile
	for i := 0; i < 6; i++ {
		files = append(files, imageFile(fmt.Sprintf("photo%d.JPG", i), "image/jpeg", 1024))
	}

	urls, err := is.Upload(context.Background(), owner, files)
	require.NoError(t, err)
	require.Len(t, urls, 6)
	assert.Len(t, store.names, 6)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "https://img.example.com/"+owner.Hex()+"-"))
		assert.True(t, strings.HasSuffix(u, ".jpg"))
	}
}

func TestUploadValidation(t *testing.T) {
	is := NewImageService(&fakeImageStore{}, nil)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	_, err := is.Upload(ctx, owner, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	var seven []ImageFile
	for i := 0; i < 7; i++ {
		seven = append(seven, imageFile("a.png", "image/png", 10))
	}
	_, err = is.Upload(ctx, owner, seven)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	_, err = is.Upload(ctx, owner, []ImageFile{imageFile("big.png", "image/png", MaxImageSize+1)})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.Contains(t, apperrors.PublicMessage(err), "2 MB")

	_, err = is.Upload(ctx, owner, []ImageFile{imageFile("notes.txt", "text/plain", 10)})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestUploadFailureIsUpstream(t *testing.T) {
	storeErr := errors.New("bucket unavailable")
	store := &fakeImageStore{failOn: ".png", failErr: storeErr}
	is := NewImageService(store, nil)

	files := []ImageFile{
		imageFile("a.jpg", "image/jpeg", 10),
		imageFile("b.png", "image/png", 10),
	}
	_, err := is.Upload(context.Background(), primitive.NewObjectID(), files)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstream))
	assert.Equal(t, 502, apperrors.StatusOf(err))
	assert.ErrorIs(t, err, storeErr)
}

func TestUploadDisabledStore(t *testing.T) {
	is := NewImageService(nil, nil)

	_, err := is.Upload(context.Background(), primitive.NewObjectID(), []ImageFile{imageFile("a.jpg", "image/jpeg", 10)})
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstream))
	assert.ErrorIs(t, err, helpers.ErrImageStoreDisabled)
}
