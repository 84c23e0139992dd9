package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
)

// GetProducts lists the catalog. Query params: category and active narrow
// the filter, order sets the "-field" spec, limit caps the result.
func (h *Handler) GetProducts(c echo.Context) error {
	criteria := store.Criteria{}
	if category := c.QueryParam("category"); category != "" {
		criteria["category"] = category
	}
	if active := c.QueryParam("active"); active != "" {
		val, err := strconv.ParseBool(active)
		if err != nil {
			return badRequest(c, "Invalid active parameter")
		}
		criteria["is_active"] = val
	}

	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return badRequest(c, "Invalid limit parameter")
	}

	docs, err := h.Products.Filter(c.Request().Context(), criteria, c.QueryParam("order"), limit)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch products")
	}
	return c.JSON(http.StatusOK, docs)
}

// GetProduct resolves one product by its store-assigned id.
func (h *Handler) GetProduct(c echo.Context) error {
	docs, err := h.Products.Filter(c.Request().Context(), store.Criteria{"id": c.Param("id")}, "", 0)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch product")
	}
	if len(docs) == 0 {
		return errJSON(c, http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, docs[0])
}

// CreateProduct validates and persists a new catalog item.
func (h *Handler) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if product.IsActive == nil {
		active := true
		product.IsActive = &active
	}
	if err := product.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	doc, err := store.ToDocument(&product)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to encode product")
	}
	delete(doc, "id")

	created, err := h.Products.Create(c.Request().Context(), doc)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct applies a partial update; fields not mentioned are kept.
func (h *Handler) UpdateProduct(c echo.Context) error {
	patch := store.Document{}
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "Invalid request format")
	}
	delete(patch, "id")
	delete(patch, "created_date")
	if err := validateProductPatch(patch); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.Products.Update(c.Request().Context(), c.Param("id"), patch)
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to update product")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a product. Uploaded assets are not cleaned up.
func (h *Handler) DeleteProduct(c echo.Context) error {
	err := h.Products.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// validateProductPatch checks typed constraints for the fields present in
// a partial update.
func validateProductPatch(patch store.Document) error {
	if name, ok := patch["name"]; ok {
		if s, _ := name.(string); s == "" {
			return errors.New("product name is required")
		}
	}
	for _, key := range []string{"price", "original_price", "stock"} {
		if raw, ok := patch[key]; ok && raw != nil {
			n, ok := raw.(float64)
			if !ok || n < 0 {
				return fmt.Errorf("product %s must be a non-negative number", key)
			}
		}
	}
	if raw, ok := patch["badge"]; ok && raw != nil {
		badge, _ := raw.(string)
		switch badge {
		case "", models.BadgeNew, models.BadgeSale, models.BadgeLimited:
		default:
			return fmt.Errorf("unknown product badge %q", badge)
		}
	}
	return nil
}

func parseLimit(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 0 {
		return 0, errors.New("invalid limit")
	}
	return limit, nil
}
