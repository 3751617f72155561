package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/models"
	"github.com/joshua-takyi/estate/internal/services"
)

// maxUploadBody caps the whole multipart request: six full-size images plus
// form overhead.
const maxUploadBody = models.MaxListingImages*services.MaxImageSize + 1<<20

// UploadImages accepts up to six files in the "images" form field and
// returns their public URLs in upload order.
func UploadImages(is *services.ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := requester(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
		form, err := c.MultipartForm()
		if err != nil {
			_ = c.Error(apperrors.InvalidInput("images must be sent as multipart form data (2 MB max per image)", err))
			return
		}

		headers := form.File["images"]
		files := make([]services.ImageFile, 0, len(headers))
		for _, fh := range headers {
			files = append(files, services.ImageFile{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}

		urls, err := is.Upload(c.Request.Context(), ownerID, files)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, gin.H{"imageUrls": urls}, "Images uploaded successfully"))
	}
}
