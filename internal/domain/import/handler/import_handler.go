// Package handler exposes the import pipeline over HTTP.
package handler

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reflexops/fleetadmin/internal/domain/import/parser"
	importservice "github.com/reflexops/fleetadmin/internal/domain/import/service"
)

// maxUploadBytes caps uploaded spreadsheet size.
const maxUploadBytes = 16 << 20

// ImportHandler handles spreadsheet upload and import history requests
type ImportHandler struct {
	importSvc *importservice.ImportService
	logger    *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importSvc *importservice.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importSvc: importSvc,
		logger:    logger,
	}
}

// Register mounts the import routes on a router group
func (h *ImportHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/imports", h.Upload)
	rg.GET("/imports", h.History)
	rg.GET("/imports/:id", h.Get)
}

// Upload accepts a multipart spreadsheet and runs the import pipeline
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	result, err := h.importSvc.ImportFile(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, parser.ErrNoDataRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("import failed",
			slog.String("filename", fileHeader.Filename),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// History lists recent imports, newest first
func (h *ImportHandler) History(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.importSvc.History(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list import history", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list import history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imports": records})
}

// Get returns one import audit record by id
func (h *ImportHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import id"})
		return
	}

	record, err := h.importSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "import not found"})
			return
		}
		h.logger.Error("failed to get import record", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get import record"})
		return
	}

	c.JSON(http.StatusOK, record)
}
