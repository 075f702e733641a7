package handler

import (
	"context"
	"net/http"
	"time"

	app "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/application/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConsolidationService is the application service behind ConsolidationHandler
type ConsolidationService interface {
	Schedule(ctx context.Context, req app.ScheduleConsolidationRequest) (*app.ConsolidationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*app.ConsolidationResponse, error)
	List(ctx context.Context) ([]app.ConsolidationResponse, error)
	AuditLog(ctx context.Context, id uuid.UUID) ([]app.ConsolidationAuditLogResponse, error)
	Execute(ctx context.Context, id uuid.UUID) error
	ExecuteDue(ctx context.Context, now time.Time) (app.ExecutionSummary, error)
}

// ConsolidationHandler handles actor consolidation endpoints
type ConsolidationHandler struct {
	BaseHandler
	service ConsolidationService
	// operator guards the endpoints that run consolidations on demand
	operator gin.HandlerFunc
	now      func() time.Time
}

// NewConsolidationHandler creates a new ConsolidationHandler. operator, when
// not nil, runs before the execute endpoints.
func NewConsolidationHandler(service ConsolidationService, operator gin.HandlerFunc) *ConsolidationHandler {
	return &ConsolidationHandler{service: service, operator: operator, now: time.Now}
}

// RegisterRoutes registers consolidation routes on rg
func (h *ConsolidationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	consolidations := rg.Group("/consolidations")
	consolidations.POST("", h.Schedule)
	consolidations.GET("", h.List)
	consolidations.GET("/:id", h.Get)
	consolidations.GET("/:id/audit-log", h.AuditLog)

	execute := consolidations.Group("")
	if h.operator != nil {
		execute.Use(h.operator)
	}
	execute.POST("/:id/execute", h.Execute)
	execute.POST("/execute-due", h.ExecuteDue)
}

// Schedule schedules an actor consolidation
func (h *ConsolidationHandler) Schedule(c *gin.Context) {
	var req app.ScheduleConsolidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	consolidation, err := h.service.Schedule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, consolidation)
}

// Get returns a consolidation
func (h *ConsolidationHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	consolidation, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, consolidation)
}

// List lists consolidations
func (h *ConsolidationHandler) List(c *gin.Context) {
	consolidations, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(consolidations))
}

// AuditLog returns the grid area ownership changes made by a consolidation
func (h *ConsolidationHandler) AuditLog(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	entries, err := h.service.AuditLog(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(entries))
}

// Execute runs a consolidation if it is pending and due
func (h *ConsolidationHandler) Execute(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Execute(ctx, id); err != nil {
		h.HandleError(c, err)
		return
	}
	consolidation, err := h.service.Get(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, consolidation)
}

// ExecuteDue runs every pending consolidation that is due
func (h *ConsolidationHandler) ExecuteDue(c *gin.Context) {
	summary, err := h.service.ExecuteDue(c.Request.Context(), h.now().UTC())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
