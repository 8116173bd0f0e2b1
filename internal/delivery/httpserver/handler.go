package httpserver

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/torqueup/assistant-api/config"
	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/usecase"
)

// Handler serves the chat and inventory endpoints.
type Handler struct {
	cfg       *config.Config
	log       zerolog.Logger
	chatUC    usecase.ChatUseCase
	listingUC usecase.ListingUseCase
	catalogUC usecase.CatalogUseCase
}

// NewHandler wires the use cases into HTTP handlers.
func NewHandler(
	cfg *config.Config,
	log zerolog.Logger,
	chatUC usecase.ChatUseCase,
	listingUC usecase.ListingUseCase,
	catalogUC usecase.CatalogUseCase,
) *Handler {
	return &Handler{
		cfg:       cfg,
		log:       log,
		chatUC:    chatUC,
		listingUC: listingUC,
		catalogUC: catalogUC,
	}
}

type chatRequest struct {
	Message string           `json:"message"`
	Cars    []entity.Vehicle `json:"cars"`
	Context struct {
		PreviousMessages []entity.ConversationTurn `json:"previousMessages"`
	} `json:"context"`
}

// Chat handles one conversation turn.
//
// POST /gemini-chat
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	// The prior-turn window is bounded here, at the edge; the filter core
	// takes whatever it is given.
	previous := req.Context.PreviousMessages
	if max := h.cfg.MaxHistoryTurns; max > 0 && len(previous) > max {
		previous = previous[len(previous)-max:]
	}

	result, err := h.chatUC.ProcessTurn(c.Request.Context(), usecase.ChatTurn{
		SessionID: sessionID(c),
		Message:   req.Message,
		Vehicles:  req.Cars,
		Previous:  previous,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("chat turn failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListVehicles returns the full vehicle inventory.
//
// GET /v1/vehicles
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.listingUC.GetAllVehicles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles)})
}

// SearchVehicles finds vehicles by free-text query.
//
// GET /v1/vehicles/search?q=
func (h *Handler) SearchVehicles(c *gin.Context) {
	vehicles, err := h.listingUC.SearchVehicles(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles)})
}

// SearchParts finds parts by title substring.
//
// GET /v1/parts?q=
func (h *Handler) SearchParts(c *gin.Context) {
	parts, err := h.listingUC.SearchParts(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parts": parts, "count": len(parts)})
}

// ChatHistory returns the stored exchanges of one session, oldest first.
//
// GET /v1/chat/history
func (h *Handler) ChatHistory(c *gin.Context) {
	messages, err := h.chatUC.GetHistory(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// ClearChatHistory drops one session's stored exchanges.
//
// DELETE /v1/chat/history
func (h *Handler) ClearChatHistory(c *gin.Context) {
	if err := h.chatUC.ClearHistory(c.Request.Context(), sessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// RequireAdmin gates the admin group behind the shared token.
func (h *Handler) RequireAdmin(c *gin.Context) {
	if h.cfg.AdminToken == "" || c.GetHeader("X-Admin-Token") != h.cfg.AdminToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
		return
	}
	c.Next()
}

// ImportCatalog replaces the vehicle inventory from an uploaded workbook.
//
// POST /v1/admin/catalog
func (h *Handler) ImportCatalog(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx files are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	count, err := h.catalogUC.ImportFromBytes(c.Request.Context(), data, fileHeader.Filename, "http-admin")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "imported", "vehicles": count})
}

// RecentImports lists catalog imports, newest first.
//
// GET /v1/admin/imports?limit=
func (h *Handler) RecentImports(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	imports, err := h.catalogUC.RecentImports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": imports, "count": len(imports)})
}

// sessionID resolves the caller's session key. The widget sends one in a
// header; callers without one share the default web session.
func sessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-Session-ID")); id != "" {
		return id
	}
	return "web"
}
