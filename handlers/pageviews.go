package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
)

// TrackPageView records one analytics event. Clients treat tracking as
// best-effort; the endpoint itself reports failures normally.
func (h *Handler) TrackPageView(c echo.Context) error {
	var view models.PageView
	if err := c.Bind(&view); err != nil {
		return badRequest(c, "Invalid request format")
	}
	view.Normalize()
	if view.UserAgent == "" {
		view.UserAgent = c.Request().UserAgent()
	}
	if view.SessionID == "" {
		view.SessionID = "session_" + uuid.NewString()
	}

	doc, err := store.ToDocument(&view)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to encode page view")
	}
	delete(doc, "id")

	created, err := h.PageViews.Create(c.Request().Context(), doc)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to record page view")
	}
	return c.JSON(http.StatusCreated, created)
}
