package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/junta/backend/internal/application/reconcile"
	"github.com/junta/backend/internal/domain/bulk"
	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/infrastructure/progress"
	"github.com/junta/backend/internal/interfaces/http/dto"
)

// ImportHandler serves the spreadsheet reconciliation endpoints
type ImportHandler struct {
	BaseHandler
	importService *reconcile.ImportService
	historyRepo   bulk.ImportHistoryRepository
	progressStore progress.Store
	maxFileSize   int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(
	importService *reconcile.ImportService,
	historyRepo bulk.ImportHistoryRepository,
	progressStore progress.Store,
	maxFileSize int64,
) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = 20 << 20
	}
	return &ImportHandler{
		importService: importService,
		historyRepo:   historyRepo,
		progressStore: progressStore,
		maxFileSize:   maxFileSize,
	}
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/imports")
	{
		imports.POST("", h.RunImport)
		imports.GET("", h.ListHistory)
		imports.GET("/:id", h.GetHistory)
		imports.GET("/:id/progress", h.GetProgress)
	}
}

// RunImport uploads a scoring spreadsheet and reconciles it against the
// evaluation store. The run executes synchronously; clients follow the
// progress endpoint while it works through its chunks.
func (h *ImportHandler) RunImport(c *gin.Context) {
	evaluatorID, err := getEvaluatorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	periodID, err := uuid.Parse(c.PostForm("period_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing period_id")
		return
	}

	level := registration.TeachingLevel(c.PostForm("level"))
	if !level.IsValid() {
		h.BadRequest(c, "Invalid or missing level")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	if fileHeader.Size > h.maxFileSize {
		h.BadRequest(c, "File exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.BadRequest(c, "File exceeds the maximum allowed size")
		return
	}

	result, err := h.importService.Run(c.Request.Context(), reconcile.RunInput{
		PeriodID:   periodID,
		Level:      level,
		FileName:   fileHeader.Filename,
		FileSize:   fileHeader.Size,
		ImportedBy: evaluatorID,
		Data:       data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ImportResultResponse{
		HistoryID:    result.HistoryID.String(),
		TotalRows:    result.TotalRows,
		ImportedRows: result.ImportedRows,
		SkippedRows:  result.SkippedRows,
		ErrorRows:    result.ErrorRows,
		Errors:       dto.NewImportErrorResponses(result.Errors),
		IsTruncated:  result.IsTruncated,
		TotalErrors:  result.TotalErrors,
	})
}

// ListHistory returns past reconciliation runs, newest first
func (h *ImportHandler) ListHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := bulk.ImportHistoryFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := bulk.ImportStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}
	if periodStr := c.Query("period_id"); periodStr != "" {
		periodID, err := uuid.Parse(periodStr)
		if err != nil {
			h.BadRequest(c, "Invalid period_id filter")
			return
		}
		filter.PeriodID = &periodID
	}

	result, err := h.historyRepo.FindAll(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.ImportHistoryResponse, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.NewImportHistoryResponse(item)
	}
	h.SuccessWithMeta(c, items, result.TotalCount, result.Page, result.PageSize)
}

// GetHistory returns one past run with its row error details
func (h *ImportHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import ID")
		return
	}

	history, err := h.historyRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewImportHistoryResponse(history))
}

// GetProgress returns the latest progress snapshot of a run. Snapshots
// expire after the run finishes; a missing snapshot falls back to the
// persisted history.
func (h *ImportHandler) GetProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import ID")
		return
	}

	snap, err := h.progressStore.Get(c.Request.Context(), id)
	if err == nil {
		h.Success(c, snap)
		return
	}
	if !shared.IsNotFound(err) {
		h.HandleError(c, err)
		return
	}

	history, err := h.historyRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	percentage := 0
	if history.Status.IsTerminal() {
		percentage = 100
	}
	h.Success(c, progress.Snapshot{
		ImportID:      history.ID,
		Status:        string(history.Status),
		Percentage:    percentage,
		ProcessedRows: history.ImportedRows + history.SkippedRows + history.ErrorRows,
		TotalRows:     history.TotalRows,
		ImportedRows:  history.ImportedRows,
		SkippedRows:   history.SkippedRows,
		ErrorRows:     history.ErrorRows,
		UpdatedAt:     history.UpdatedAt,
	})
}
