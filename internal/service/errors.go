package service

import (
	"errors"
	"net/http"
	"strings"

	"github.com/spec-kit/storefront/internal/backend"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// backendError turns a backend failure into an error the HTTP layer can render. Client errors
// keep their status and message; everything else is reported as an unavailable backend.
func backendError(err error, fallback string) error {
	var backendErr *backend.Error
	if !errors.As(err, &backendErr) || backendErr.Status >= http.StatusInternalServerError || backendErr.Status < http.StatusBadRequest {
		return apperrors.NewBadGateway("storefront backend unavailable", err)
	}

	message := strings.TrimSpace(backendErr.Message)
	if message == "" {
		message = fallback
	}
	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(backendErr.Status), " ", "_"))
	if code == "" {
		code = "BACKEND_REJECTED"
	}
	return apperrors.NewDomainError(code, message, backendErr.Status, nil)
}
