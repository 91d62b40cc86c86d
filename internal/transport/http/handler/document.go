package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/ErlanBelekov/sections-api/internal/reqctx"
	"github.com/gin-gonic/gin"
)

type documentUsecaser interface {
	Save(ctx context.Context, owner *domain.User, content json.RawMessage) (domain.SaveResult, error)
	Get(ctx context.Context, owner *domain.User) (*domain.Document, error)
	Sample(ctx context.Context) (json.RawMessage, error)
}

type DocumentHandler struct {
	documentUsecase documentUsecaser
	logger          *slog.Logger
}

func NewDocumentHandler(documentUsecase documentUsecaser, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentUsecase: documentUsecase,
		logger:          logger.With("component", "document_handler"),
	}
}

type saveRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

// POST /api/save-data
func (h *DocumentHandler) Save(c *gin.Context) {
	user, ok := reqctx.User(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !isObjectArray(req.Data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidData})
		return
	}

	res, err := h.documentUsecase.Save(c.Request.Context(), user, req.Data)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "save document", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	if res.Created {
		c.JSON(http.StatusOK, gin.H{
			"message":    "Data saved successfully",
			"data_id":    res.Document.ID,
			"created_at": res.Document.CreatedAt,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Data updated successfully",
		"data_id":    res.Document.ID,
		"updated_at": res.Document.UpdatedAt,
	})
}

// GET /api/get-data
func (h *DocumentHandler) Get(c *gin.Context) {
	user, ok := reqctx.User(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	doc, err := h.documentUsecase.Get(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errDocumentNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get document", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       doc.Content,
		"updated_at": doc.UpdatedAt,
	})
}

// GET /api/sample-data
func (h *DocumentHandler) Sample(c *gin.Context) {
	data, err := h.documentUsecase.Sample(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSampleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errSampleNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "load sample", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Root is the unauthenticated landing route.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Legal Sections Analysis API"})
}

// isObjectArray reports whether raw is a JSON array whose elements are all
// objects. The content itself is stored verbatim.
func isObjectArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	for _, item := range items {
		if len(item) == 0 || item[0] != '{' {
			return false
		}
	}
	return true
}
