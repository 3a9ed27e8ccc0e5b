package services

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/httpclient"
)

// Normalize folds an adapter outcome into the uniform GenerationResult
// shape. It is the single place that understands how vendor and
// transport faults map onto the error taxonomy.
func Normalize(providerID string, reply *domain.ProviderReply, err error, elapsed time.Duration) domain.GenerationResult {
	res := domain.GenerationResult{
		ProviderID: providerID,
		LatencyMs:  elapsed.Milliseconds(),
	}

	if err != nil {
		res.ErrorKind, res.Message = Classify(err)
		return res
	}

	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		res.ErrorKind = domain.ErrEmptyResponse
		res.Message = "provider returned an empty response"
		return res
	}

	res.Success = true
	res.Content = reply.Content
	res.Model = reply.Model
	res.Usage = reply.Usage
	return res
}

// Classify maps a raw adapter error onto the error taxonomy, extracting
// a human-readable message where the vendor supplied one.
func Classify(err error) (domain.ErrorKind, string) {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		return classifyStatus(upstream.StatusCode), upstreamMessage(upstream)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout, "request timed out"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrTimeout, "request timed out"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.ErrNetwork, urlErr.Error()
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return domain.ErrNetwork, opErr.Error()
	}

	return domain.ErrAPI, err.Error()
}

func classifyStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrAuth
	case status == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case status == http.StatusBadRequest:
		return domain.ErrBadRequest
	case status == http.StatusForbidden:
		return domain.ErrPermissionDenied
	case status >= 500:
		return domain.ErrService
	default:
		return domain.ErrAPI
	}
}

// upstreamMessage pulls the vendor's error message out of the response
// body where the shape is recognizable, falling back to the raw body.
func upstreamMessage(upstream *httpclient.UpstreamError) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal(upstream.Body, &wrapped); jsonErr == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}

	body := strings.TrimSpace(string(upstream.Body))
	if body == "" {
		return upstream.Error()
	}
	return body
}
