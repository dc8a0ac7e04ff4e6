package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rotacarga/freight-crm/internal/repository"
)

// BoardHandler exposes the persisted board/stage catalog used by the admin
// field-configuration screen.
type BoardHandler struct {
	Boards *repository.BoardRepo
	Stages *repository.StageRepo
}

func NewBoardHandler(boards *repository.BoardRepo, stages *repository.StageRepo) *BoardHandler {
	if boards == nil || stages == nil {
		panic("nil repository passed to NewBoardHandler")
	}
	return &BoardHandler{Boards: boards, Stages: stages}
}

type boardResp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type stageResp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListBoards returns the caller's organization boards, non-deleted, ordered
// by name.  A caller without an organization gets an empty list, not an
// error.
func (h *BoardHandler) ListBoards(c echo.Context) error {
	orgID := getOrgID(c)
	if orgID == "" {
		return c.JSON(http.StatusOK, []boardResp{})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	boards, err := h.Boards.ListByOrganization(ctx, orgID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list boards failed"})
	}
	out := make([]boardResp, 0, len(boards))
	for _, b := range boards {
		out = append(out, boardResp{ID: b.ID, Name: b.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// ListStages returns a board's stages ordered by their explicit order
// column.  The board must belong to the caller's organization.
func (h *BoardHandler) ListStages(c echo.Context) error {
	orgID := getOrgID(c)
	if orgID == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
	}
	boardID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Boards.GetByIDAndOrganization(ctx, boardID, orgID); err != nil {
		if err == repository.ErrBoardNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load board failed"})
	}

	stages, err := h.Stages.ListByBoard(ctx, boardID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list stages failed"})
	}
	out := make([]stageResp, 0, len(stages))
	for _, s := range stages {
		out = append(out, stageResp{ID: s.ID, Name: s.Name})
	}
	return c.JSON(http.StatusOK, out)
}
