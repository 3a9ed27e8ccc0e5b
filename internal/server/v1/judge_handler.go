package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/core/services"
	"github.com/nulzo/quorum/internal/server/validator"
	"github.com/nulzo/quorum/pkg/api"
)

type JudgeHandler struct {
	judge *services.Judge
}

func NewJudgeHandler(judge *services.Judge) *JudgeHandler {
	return &JudgeHandler{judge: judge}
}

// Create ranks exactly four candidate responses. The binding enforces
// the count; the evaluator re-asserts it. A judgement always comes
// back once the input is valid, tagged as mock when the judge model
// was unreachable.
func (h *JudgeHandler) Create(c *gin.Context) {
	var req api.JudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	judgement, err := h.judge.Evaluate(c.Request.Context(), req.Question, req.Responses)
	if err != nil {
		if errors.Is(err, domain.ErrResponseCount) {
			_ = c.Error(api.BadRequestError(err.Error()))
			return
		}
		_ = c.Error(api.InternalError("judgement failed", err))
		return
	}

	c.JSON(http.StatusOK, api.JudgeResponse{
		ID:        uuid.NewString(),
		Judgement: *judgement,
	})
}
