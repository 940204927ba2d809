package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/circuitbreaker"
	"github.com/fd1az/seller-scout/internal/httpclient"
)

// APIError is the error body the catalog backend returns.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog backend HTTP %d", e.Status)
	}
	return fmt.Sprintf("catalog backend HTTP %d: %s", e.Status, e.Message)
}

func catalogErrorHandler(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}
	apiErr := &APIError{Status: statusCode}
	if len(body) > 0 {
		if jsonErr := decodeAPIError(body, apiErr); jsonErr != nil {
			apiErr.Message = truncate(string(body), 200)
		}
	}
	return apiErr
}

// classify turns transport, breaker and HTTP failures into catalog apperrors.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	var apiErr *APIError
	switch {
	case circuitbreaker.IsOpen(err):
		return apperror.External(apperror.CodeCircuitOpen, op, err)
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
			return apperror.New(apperror.CodeCatalogUnauthorized, apperror.WithContext(op), apperror.WithCause(err))
		case apiErr.Status == http.StatusNotFound:
			return apperror.New(apperror.CodeProductNotFound, apperror.WithContext(op), apperror.WithCause(err))
		case apiErr.Status == http.StatusTooManyRequests:
			return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext(op), apperror.WithCause(err))
		default:
			return apperror.External(apperror.CodeCatalogServerError, op, err)
		}
	case errors.Is(err, httpclient.ErrDecodeResult):
		return apperror.External(apperror.CodeCatalogServerError, op+": malformed response", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperror.External(apperror.CodeCatalogUnavailable, op+": timed out", err)
	default:
		return apperror.External(apperror.CodeCatalogUnavailable, op, err)
	}
}

// tripsBreaker reports whether err indicates the backend is unhealthy.
func tripsBreaker(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
