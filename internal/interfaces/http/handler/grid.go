package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	scoringapp "github.com/junta/backend/internal/application/scoring"
	"github.com/junta/backend/internal/domain/scoring"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/interfaces/http/dto"
	"github.com/junta/backend/internal/interfaces/http/middleware"
)

// GridHandler serves the consolidated evaluation grid endpoints
type GridHandler struct {
	BaseHandler
	gridService *scoringapp.GridService
}

// NewGridHandler creates a new GridHandler
func NewGridHandler(gridService *scoringapp.GridService) *GridHandler {
	return &GridHandler{gridService: gridService}
}

// RegisterRoutes registers grid routes
func (h *GridHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grid := rg.Group("/inscriptions/:id/grid")
	{
		grid.GET("", h.GetGrid)
		grid.POST("/edit", h.EditCriterion)
		grid.POST("/broadcast-title", h.BroadcastTitleScore)
		grid.POST("/save", h.SaveGrid)
		grid.POST("/reopen", h.Reopen)
	}

	rg.DELETE("/evaluations/:id", middleware.RequirePresident(), h.DeleteEvaluation)
}

// GetGrid returns the consolidated grid for one inscription
func (h *GridHandler) GetGrid(c *gin.Context) {
	inscriptionID, evaluatorID, ok := h.gridContext(c)
	if !ok {
		return
	}

	grid, err := h.gridService.Consolidate(c.Request.Context(), inscriptionID, evaluatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewGridResponse(grid))
}

// EditCriterion applies one criterion edit and returns the resulting
// grid without persisting it
func (h *GridHandler) EditCriterion(c *gin.Context) {
	inscriptionID, evaluatorID, ok := h.gridContext(c)
	if !ok {
		return
	}

	var req dto.EditCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	grid, err := h.gridService.EditCriterion(c.Request.Context(), inscriptionID, evaluatorID,
		req.RowIndex, req.CriterionID, req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewGridResponse(grid))
}

// BroadcastTitleScore copies the first row's titulo score onto the other
// draft rows and returns the resulting grid without persisting it
func (h *GridHandler) BroadcastTitleScore(c *gin.Context) {
	inscriptionID, evaluatorID, ok := h.gridContext(c)
	if !ok {
		return
	}

	grid, err := h.gridService.BroadcastTitleScore(c.Request.Context(), inscriptionID, evaluatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewGridResponse(grid))
}

// SaveGrid overlays the client's row state onto the server-side grid and
// persists it, fanning each row out to its underlying selections
func (h *GridHandler) SaveGrid(c *gin.Context) {
	inscriptionID, evaluatorID, ok := h.gridContext(c)
	if !ok {
		return
	}

	var req dto.SaveGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	grid, err := h.gridService.Consolidate(c.Request.Context(), inscriptionID, evaluatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := overlayRowState(grid, req.Rows); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.gridService.SaveAll(c.Request.Context(), *grid, req.Finalize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reopen returns every completed record of the inscription to draft
func (h *GridHandler) Reopen(c *gin.Context) {
	inscriptionID, _, ok := h.gridContext(c)
	if !ok {
		return
	}

	reopened, err := h.gridService.ReopenAll(c.Request.Context(), inscriptionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"reopened": reopened})
}

// DeleteEvaluation removes one evaluation record outright. The route is
// gated on the presidency role; evaluators use reopen instead.
func (h *GridHandler) DeleteEvaluation(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid evaluation ID")
		return
	}

	if err := h.gridService.DeleteRecord(c.Request.Context(), recordID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": recordID.String()})
}

// gridContext resolves the inscription path parameter and the evaluator
// identity, replying with the appropriate error when either is missing
func (h *GridHandler) gridContext(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	inscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inscription ID")
		return uuid.Nil, uuid.Nil, false
	}
	evaluatorID, err := getEvaluatorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return inscriptionID, evaluatorID, true
}

// overlayRowState writes the client's per-row scores, title types and
// notes onto the consolidated grid before saving. Rows are matched by
// the stable row ID; an unknown ID rejects the whole save.
func overlayRowState(grid *scoring.Grid, rows []dto.RowStateRequest) error {
	index := make(map[string]int, len(grid.Rows))
	for i, row := range grid.Rows {
		index[row.ID] = i
	}

	for _, state := range rows {
		i, ok := index[state.ID]
		if !ok {
			return shared.NewDomainError("INVALID_INPUT", "Fila desconocida: "+state.ID)
		}
		record := grid.Rows[i].Evaluation

		if state.TitleType != "" {
			if err := record.SetTitleType(scoring.TitleType(state.TitleType)); err != nil {
				return err
			}
		}

		if len(state.Scores) > 0 {
			scores := record.Scores
			for criterionID, value := range state.Scores {
				if _, found := scoring.CriterionByID(criterionID); !found {
					return shared.NewDomainError("INVALID_INPUT", "Criterio desconocido: "+criterionID)
				}
				scores = scores.With(criterionID, value)
			}
			if err := record.SetScores(scores); err != nil {
				return err
			}
		}

		record.SetNotes(state.Notes)
	}
	return nil
}
