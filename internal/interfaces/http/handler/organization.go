package handler

import (
	"context"
	"net/http"

	app "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/application/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrganizationService is the application service behind OrganizationHandler
type OrganizationService interface {
	Create(ctx context.Context, req app.CreateOrganizationRequest) (*app.OrganizationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*app.OrganizationResponse, error)
	List(ctx context.Context) ([]app.OrganizationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req app.UpdateOrganizationRequest) (*app.OrganizationResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// OrganizationActors lists the actors of an organization
type OrganizationActors interface {
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]app.ActorResponse, error)
}

// OrganizationHandler handles organization endpoints
type OrganizationHandler struct {
	BaseHandler
	service OrganizationService
	actors  OrganizationActors
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(service OrganizationService, actors OrganizationActors) *OrganizationHandler {
	return &OrganizationHandler{service: service, actors: actors}
}

// RegisterRoutes registers organization routes on rg
func (h *OrganizationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orgs := rg.Group("/organizations")
	orgs.POST("", h.Create)
	orgs.GET("", h.List)
	orgs.GET("/:id", h.Get)
	orgs.PUT("/:id", h.Update)
	orgs.DELETE("/:id", h.Deactivate)
	orgs.GET("/:id/actors", h.ListActors)
}

// Create creates an organization
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req app.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	org, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// Get returns an organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	org, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// List lists organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(orgs))
}

// Update updates an organization's name, address and domains
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req app.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	org, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// Deactivate deactivates an organization
func (h *OrganizationHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListActors lists the actors of an organization
func (h *OrganizationHandler) ListActors(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	actors, err := h.actors.ListByOrganization(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(actors))
}
