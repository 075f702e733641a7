package handler

import "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/dto"

// APIResponse is dto.Response with a typed payload
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}
