package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/quorum/internal/core/services"
	"github.com/nulzo/quorum/pkg/api"
)

type ProviderHandler struct {
	tester *services.Tester
}

func NewProviderHandler(tester *services.Tester) *ProviderHandler {
	return &ProviderHandler{tester: tester}
}

// List reports configuration-derived provider status. No network calls.
func (h *ProviderHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, api.ProvidersResponse{
		Providers: h.tester.StatusReport(),
	})
}

// Health probes every configured provider with a short live request.
func (h *ProviderHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.ProvidersHealthResponse{
		Providers: h.tester.TestAll(c.Request.Context()),
	})
}
