package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
	"github.com/Skotchmaster/thinai_hub/internal/service"
)

var errMalformed = errors.New("malformed body")

// CollectionHTTP serves one collection of the document store.
type CollectionHTTP struct {
	Svc        *service.CollectionService
	Collection models.Collection
}

func NewCollectionHTTP(svc *service.CollectionService, coll models.Collection) *CollectionHTTP {
	return &CollectionHTTP{Svc: svc, Collection: coll}
}

func (h *CollectionHTTP) notFoundMessage() string {
	switch h.Collection {
	case models.Products:
		return "Product not found"
	case models.Orders:
		return "Order not found"
	}
	return "Not Found"
}

func (h *CollectionHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", string(h.Collection)+".list")

	docs, err := h.Svc.List(ctx, h.Collection)
	if err != nil {
		l.Error("list_error", "status", 500, "reason", "cannot load collection", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load "+string(h.Collection))
	}

	return c.JSON(http.StatusOK, docs)
}

func (h *CollectionHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", string(h.Collection)+".create")

	body, err := decodeDocument(c.Request().Body)
	if err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}

	doc, err := h.Svc.Create(ctx, h.Collection, body)
	if err != nil {
		l.Error("create_error", "status", 500, "reason", "cannot save document", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save "+string(h.Collection))
	}

	l.Info("create_success", "id", doc.ID())
	return c.JSON(http.StatusCreated, doc)
}

func (h *CollectionHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", string(h.Collection)+".delete", "id", id)

	if err := h.Svc.DeleteByID(ctx, h.Collection, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_error", "status", 404, "reason", "document not found")
			return echo.NewHTTPError(http.StatusNotFound, h.notFoundMessage())
		}
		l.Error("delete_error", "status", 500, "reason", "cannot delete document", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete from "+string(h.Collection))
	}

	l.Info("delete_success")
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *CollectionHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", string(h.Collection)+".patch", "id", id)

	partial, err := decodeDocument(c.Request().Body)
	if err != nil {
		l.Warn("patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}

	doc, err := h.Svc.PatchByID(ctx, h.Collection, id, partial)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("patch_error", "status", 404, "reason", "document not found")
			return echo.NewHTTPError(http.StatusNotFound, h.notFoundMessage())
		case errors.Is(err, service.ErrInvalidTransition):
			l.Warn("patch_error", "status", 409, "reason", "invalid status transition", "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		l.Error("patch_error", "status", 500, "reason", "cannot update document", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update "+string(h.Collection))
	}

	l.Info("patch_success")
	return c.JSON(http.StatusOK, doc)
}

// decodeDocument accepts exactly one JSON object and keeps numbers verbatim.
func decodeDocument(r io.Reader) (models.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", errMalformed)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", errMalformed)
	}
	return doc, nil
}
