package server

import (
	"github.com/nulzo/quorum/internal/server/middleware"
	v1 "github.com/nulzo/quorum/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	// Health Check (Public)
	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
	api.Use(limiter.Middleware())
	{
		generationHandler := v1.NewGenerationHandler(s.dispatcher)
		api.POST("/generations", generationHandler.Create)

		judgeHandler := v1.NewJudgeHandler(s.judge)
		api.POST("/judgements", judgeHandler.Create)

		providerHandler := v1.NewProviderHandler(s.tester)
		api.GET("/providers", providerHandler.List)
		api.GET("/providers/health", providerHandler.Health)
	}
}
