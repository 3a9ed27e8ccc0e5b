package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/core/services"
	"github.com/nulzo/quorum/internal/server/validator"
	"github.com/nulzo/quorum/pkg/api"
)

type GenerationHandler struct {
	dispatcher *services.Dispatcher
}

func NewGenerationHandler(dispatcher *services.Dispatcher) *GenerationHandler {
	return &GenerationHandler{dispatcher: dispatcher}
}

// Create fans the prompt out to the requested providers and returns the
// per-provider results in request order. Individual provider failures
// appear as failed results, not as an HTTP error.
func (h *GenerationHandler) Create(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	settings := domain.Settings{
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		SystemPrompt: req.SystemPrompt,
		Timeout:      time.Duration(req.TimeoutMs) * time.Millisecond,
	}

	results, err := h.dispatcher.GenerateMany(c.Request.Context(), req.Providers, req.Prompt, settings)
	if err != nil {
		if errors.Is(err, services.ErrNoProvidersAvailable) {
			_ = c.Error(api.ServiceUnavailableError(
				"none of the requested providers are configured",
				api.WithExtension("error_kind", string(domain.ErrNoProvidersAvailable)),
			))
			return
		}
		_ = c.Error(api.InternalError("generation failed", err))
		return
	}

	c.JSON(http.StatusOK, api.GenerateResponse{
		ID:      uuid.NewString(),
		Results: results,
	})
}
