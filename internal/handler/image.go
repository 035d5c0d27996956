package handler

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/textbooktown/backend/internal/upload"
)

// ImageHandler serves previously uploaded listing photos.
type ImageHandler struct {
	Store *upload.Store
}

func NewImageHandler(store *upload.Store) *ImageHandler {
	return &ImageHandler{Store: store}
}

// ServeImage streams a stored photo as an attachment. The store strips
// any path components from the requested name, so only files inside
// the upload directory are reachable. Unknown filenames get 400,
// consistent with the rest of the API's not-found handling.
func (h *ImageHandler) ServeImage(c echo.Context) error {
	name := c.Param("filename")
	if name == "" {
		return c.NoContent(http.StatusBadRequest)
	}
	path := h.Store.Path(name)
	if _, err := os.Stat(path); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	return c.Attachment(path, name)
}
