package handler

import (
	"context"

	app "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/application/participant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActorService is the application service behind ActorHandler
type ActorService interface {
	Create(ctx context.Context, req app.CreateActorRequest) (*app.ActorResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*app.ActorResponse, error)
	Rename(ctx context.Context, id uuid.UUID, req app.RenameActorRequest) (*app.ActorResponse, error)
	SetExternalActorID(ctx context.Context, id uuid.UUID, req app.SetExternalActorIDRequest) (*app.ActorResponse, error)
	AssignCertificate(ctx context.Context, id uuid.UUID, req app.AssignCertificateRequest) (*app.ActorResponse, error)
	AssignClientSecret(ctx context.Context, id uuid.UUID) (*app.ClientSecretResponse, error)
	RemoveCredentials(ctx context.Context, id uuid.UUID) (*app.ActorResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*app.ActorResponse, error)
	CreateDelegation(ctx context.Context, req app.CreateDelegationRequest) (*app.DelegationResponse, error)
	StopDelegation(ctx context.Context, id uuid.UUID, req app.StopDelegationRequest) (*app.DelegationResponse, error)
}

// ActorHandler handles actor, credential and delegation endpoints
type ActorHandler struct {
	BaseHandler
	service ActorService
}

// NewActorHandler creates a new ActorHandler
func NewActorHandler(service ActorService) *ActorHandler {
	return &ActorHandler{service: service}
}

// RegisterRoutes registers actor and delegation routes on rg
func (h *ActorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	actors := rg.Group("/actors")
	actors.POST("", h.Create)
	actors.GET("/:id", h.Get)
	actors.PUT("/:id/name", h.Rename)
	actors.PUT("/:id/external-actor-id", h.SetExternalActorID)
	actors.PUT("/:id/certificate", h.AssignCertificate)
	actors.POST("/:id/client-secret", h.AssignClientSecret)
	actors.DELETE("/:id/credentials", h.RemoveCredentials)
	actors.POST("/:id/deactivate", h.Deactivate)

	delegations := rg.Group("/delegations")
	delegations.POST("", h.CreateDelegation)
	delegations.POST("/:id/stop", h.StopDelegation)
}

// Create creates an actor
func (h *ActorHandler) Create(c *gin.Context) {
	var req app.CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	actor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, actor)
}

// Get returns an actor
func (h *ActorHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	actor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actor)
}

// Rename renames an actor
func (h *ActorHandler) Rename(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req app.RenameActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	actor, err := h.service.Rename(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actor)
}

// SetExternalActorID links or unlinks the actor's identity provider application
func (h *ActorHandler) SetExternalActorID(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req app.SetExternalActorIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	actor, err := h.service.SetExternalActorID(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actor)
}

// AssignCertificate assigns certificate credentials
func (h *ActorHandler) AssignCertificate(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req app.AssignCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	actor, err := h.service.AssignCertificate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actor)
}

// AssignClientSecret issues a client secret
func (h *ActorHandler) AssignClientSecret(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	secret, err := h.service.AssignClientSecret(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, secret)
}

// RemoveCredentials removes the actor's credentials
func (h *ActorHandler) RemoveCredentials(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	actor, err := h.service.RemoveCredentials(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actor)
}

// Deactivate deactivates an actor
func (h *ActorHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	actor, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actor)
}

// CreateDelegation delegates a market role to another actor
func (h *ActorHandler) CreateDelegation(c *gin.Context) {
	var req app.CreateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	delegation, err := h.service.CreateDelegation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, delegation)
}

// StopDelegation stops a delegation
func (h *ActorHandler) StopDelegation(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req app.StopDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	delegation, err := h.service.StopDelegation(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delegation)
}
