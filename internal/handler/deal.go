package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rotacarga/freight-crm/internal/board"
	"github.com/rotacarga/freight-crm/internal/cache"
	"github.com/rotacarga/freight-crm/internal/model"
	"github.com/rotacarga/freight-crm/internal/queue"
	"github.com/rotacarga/freight-crm/internal/repository"
	"github.com/rotacarga/freight-crm/internal/schema"
	queue_publisher "github.com/rotacarga/freight-crm/internal/service"
)

// StageGuard checks that a stage is visible to an organization before its
// schema is served.  *repository.StageRepo satisfies it.
type StageGuard interface {
	GetByIDAndOrganization(ctx context.Context, id, orgID string) (*repository.Stage, error)
}

// DealHandler exposes the kanban surface: board views, card creation,
// partial updates and drag-and-drop moves against the in-memory deal store.
type DealHandler struct {
	Store  *board.Store
	Stages StageGuard
	Cache  *cache.SchemaCache
}

func NewDealHandler(store *board.Store, stages StageGuard, sc *cache.SchemaCache) *DealHandler {
	if store == nil {
		panic("nil store passed to NewDealHandler")
	}
	return &DealHandler{Store: store, Stages: stages, Cache: sc}
}

type moveReq struct {
	Status model.ColumnID `json:"status"`
}

// GetBoard returns the active board's columns with their deals partitioned
// by status, in insertion order.  Empty columns are included so the client
// renders their drop placeholder.
func (h *DealHandler) GetBoard(c echo.Context) error {
	b := model.BoardType(c.Param("board"))
	if !model.ValidBoard(b) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown board"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"board":   b,
		"columns": h.Store.BoardView(b),
	})
}

// CreateDeal validates the card form and appends a new deal entering the
// active board at its initial column.  Missing title or client name is
// rejected before anything reaches the store.
func (h *DealHandler) CreateDeal(c echo.Context) error {
	var req struct {
		board.NewDealInput
		Board model.BoardType `json:"board"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	d, err := board.NewDeal(req.NewDealInput, req.Board, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	h.Store.Add(d)

	go publishCreated(d)
	return c.JSON(http.StatusCreated, d)
}

// UpdateDeal merges a partial update into the deal and refreshes its update
// timestamp.  Custom entries are merged key by key, so a dynamic form can
// send just the (key, value) pairs that changed.
func (h *DealHandler) UpdateDeal(c echo.Context) error {
	var p board.Patch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	d, ok := h.Store.Update(c.Param("id"), p)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deal not found"})
	}
	return c.JSON(http.StatusOK, d)
}

// MoveDeal sets the deal's status to the drop target column and refreshes
// its update timestamp.  The target is not checked against the deal's own
// board's column set; the drop surface decides.
func (h *DealHandler) MoveDeal(c echo.Context) error {
	var req moveReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	d, ok := h.Store.Move(c.Param("id"), req.Status)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deal not found"})
	}

	go publishMoved(d)
	return c.JSON(http.StatusOK, d)
}

// GetDealForm renders the stage form for a deal: the stage's schema is read
// through the cache layer and interpreted against the deal's custom record
// into ordered control descriptors.
func (h *DealHandler) GetDealForm(c echo.Context) error {
	d, err := h.Store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, board.ErrDealNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "deal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load deal failed"})
	}

	stageID := c.QueryParam("stage")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var s *model.StageFormSchema
	if stageID != "" && h.Cache != nil {
		// The stage must belong to the caller's organization; a foreign
		// stage is indistinguishable from a missing one.
		if _, err := h.Stages.GetByIDAndOrganization(ctx, stageID, getOrgID(c)); err != nil {
			if errors.Is(err, repository.ErrStageNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "stage not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stage failed"})
		}
		s, err = h.Cache.Get(ctx, stageID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schema failed"})
		}
	}
	controls := []schema.Control{}
	if s != nil {
		controls = schema.Render(*s, d.Custom)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"deal":     d,
		"controls": controls,
	})
}

// publishCreated and publishMoved emit lifecycle events fire-and-forget;
// broker failures are logged by the publisher and never block a request.
func publishCreated(d model.Deal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishDealEvent(ctx, queue.DealEvent{
		Type:       queue.DealCreated,
		DealID:     d.ID,
		Title:      d.Title,
		ClientName: d.ClientName,
		Board:      string(d.Board),
		Status:     string(d.Status),
		OccurredAt: d.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func publishMoved(d model.Deal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishDealEvent(ctx, queue.DealEvent{
		Type:       queue.DealMoved,
		DealID:     d.ID,
		Title:      d.Title,
		ClientName: d.ClientName,
		Board:      string(d.Board),
		Status:     string(d.Status),
		OccurredAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
