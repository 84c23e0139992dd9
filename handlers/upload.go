package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UploadFile accepts one multipart file under the "file" field and returns
// a retrievable URL. Storage failures degrade to data URLs inside the
// uploader and never fail this endpoint.
func (h *Handler) UploadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Missing file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to read file")
	}
	defer src.Close()

	fileURL, err := h.Uploader.Upload(c.Request().Context(), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to store file")
	}
	return c.JSON(http.StatusOK, map[string]string{"file_url": fileURL})
}
