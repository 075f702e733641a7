package router

import (
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/config"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/logger"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig configures the gin engine and its global middleware
type EngineConfig struct {
	HTTP           config.HTTPConfig
	Tracing        middleware.TracingConfig
	Logger         *zap.Logger
	RequestTimeout time.Duration // 0 disables
}

// NewEngine creates a gin engine with the middleware every route shares.
// Order matters: recovery wraps everything, the server span starts before the
// request ID is assigned, and access logging sees the final status.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	engine.HandleMethodNotAllowed = true

	engine.Use(
		logger.Recovery(log),
		middleware.Tracing(cfg.Tracing),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.RequestTimeout),
	)
	return engine, nil
}
