package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rotacarga/freight-crm/internal/cache"
	"github.com/rotacarga/freight-crm/internal/model"
	"github.com/rotacarga/freight-crm/internal/repository"
	"github.com/rotacarga/freight-crm/internal/schema"
)

// SchemaHandler serves the per-stage form schema documents: cached reads
// for the deal dialog's dynamic form, validated replace-on-save writes for
// the admin field editor.
type SchemaHandler struct {
	Stages  *repository.StageRepo
	Schemas *repository.SchemaRepo
	Cache   *cache.SchemaCache
}

func NewSchemaHandler(stages *repository.StageRepo, schemas *repository.SchemaRepo, sc *cache.SchemaCache) *SchemaHandler {
	if stages == nil || schemas == nil || sc == nil {
		panic("nil dependency passed to NewSchemaHandler")
	}
	return &SchemaHandler{Stages: stages, Schemas: schemas, Cache: sc}
}

// GetSchema returns the stage's form schema through the cache layer.  A
// stage with nothing persisted answers {"schema": null} so the client
// renders an empty form.
func (h *SchemaHandler) GetSchema(c echo.Context) error {
	stageID := c.Param("id")
	orgID := getOrgID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Stages.GetByIDAndOrganization(ctx, stageID, orgID); err != nil {
		if errors.Is(err, repository.ErrStageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stage not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stage failed"})
	}

	s, err := h.Cache.Get(ctx, stageID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schema failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schema": s})
}

// SaveSchema validates and replaces the stage's schema document, then
// invalidates the cache entry so subsequent reads observe the new value.
// Validation failures reject the write before anything is persisted.
func (h *SchemaHandler) SaveSchema(c echo.Context) error {
	stageID := c.Param("id")
	orgID := getOrgID(c)

	var body model.StageFormSchema
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := schema.Validate(body); err != nil {
		if errors.Is(err, schema.ErrDuplicateKey) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Stages.GetByIDAndOrganization(ctx, stageID, orgID); err != nil {
		if errors.Is(err, repository.ErrStageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stage not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stage failed"})
	}

	if err := h.Schemas.Upsert(ctx, stageID, orgID, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save schema failed"})
	}
	h.Cache.Invalidate(ctx, stageID)
	return c.JSON(http.StatusOK, echo.Map{"schema": body})
}
