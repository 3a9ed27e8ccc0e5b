package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/quorum/internal/config"
	"github.com/nulzo/quorum/internal/core/services"
	"github.com/nulzo/quorum/internal/server/middleware"
	"go.uber.org/zap"
)

type Server struct {
	router     *gin.Engine
	config     *config.Config
	logger     *zap.Logger
	dispatcher *services.Dispatcher
	judge      *services.Judge
	tester     *services.Tester
}

func New(cfg *config.Config, logger *zap.Logger, dispatcher *services.Dispatcher, judge *services.Judge, tester *services.Tester) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.Logger(logger))
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.Tracing("quorum"))

	s := &Server{
		router:     engine,
		config:     cfg,
		logger:     logger,
		dispatcher: dispatcher,
		judge:      judge,
		tester:     tester,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
