package books

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
)

// uploadImage stores a cover image for an owned book. The upload replaces any
// previously stored path; the old file is left on disk.
func (h *handler) uploadImage(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.retrieveOwned(c)
	if err != nil {
		return errors.WithStack(err)
	}

	params := UploadImagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	fileHeader, ok := params.FormFiles["image"]
	if !ok {
		return errcodes.ValidationError(`"image" is required`)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return errors.WithStack(err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return errcodes.ValidationError(`"image" must be an image file`)
	}

	// DetectReader consumed the head of the file.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}

	dir := filepath.Join(h.cfg.MediaDir, "books")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStack(err)
	}

	filename := uuid.NewString() + mtype.Extension()
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return errors.WithStack(err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return errors.WithStack(err)
	}
	if err := dst.Close(); err != nil {
		return errors.WithStack(err)
	}

	book.Image = &filename
	err = h.svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"image"}})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewBookDetailView(book)))
}
