package handler

import (
	"context"
	"net/http"

	app "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/application/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GridAreaService is the application service behind GridAreaHandler
type GridAreaService interface {
	Create(ctx context.Context, req app.CreateGridAreaRequest) (*app.GridAreaResponse, error)
	Rename(ctx context.Context, id uuid.UUID, req app.RenameGridAreaRequest) (*app.GridAreaResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*app.GridAreaResponse, error)
	List(ctx context.Context) ([]app.GridAreaResponse, error)
}

// GridAreaHandler handles grid area endpoints
type GridAreaHandler struct {
	BaseHandler
	service GridAreaService
}

// NewGridAreaHandler creates a new GridAreaHandler
func NewGridAreaHandler(service GridAreaService) *GridAreaHandler {
	return &GridAreaHandler{service: service}
}

// RegisterRoutes registers grid area routes on rg
func (h *GridAreaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	gridAreas := rg.Group("/grid-areas")
	gridAreas.POST("", h.Create)
	gridAreas.GET("", h.List)
	gridAreas.GET("/:id", h.Get)
	gridAreas.PUT("/:id/name", h.Rename)
}

// Create creates a grid area
func (h *GridAreaHandler) Create(c *gin.Context) {
	var req app.CreateGridAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	gridArea, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gridArea)
}

// Get returns a grid area
func (h *GridAreaHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	gridArea, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gridArea)
}

// List lists grid areas
func (h *GridAreaHandler) List(c *gin.Context) {
	gridAreas, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(gridAreas))
}

// Rename renames a grid area
func (h *GridAreaHandler) Rename(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req app.RenameGridAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	gridArea, err := h.service.Rename(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gridArea)
}
