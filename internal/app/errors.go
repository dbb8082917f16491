package app

import (
	"errors"
	"fmt"
	"net/http"

	"hoodreport/api/internal/export"
	"hoodreport/api/internal/report"
	"hoodreport/api/internal/store"
)

// Error codes surfaced to clients. Every failure path maps to exactly one.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeNotFound            = "NOT_FOUND"
	CodePersistenceFailed   = "PERSISTENCE_FAILED"
	CodeRasterizationFailed = "RASTERIZATION_FAILED"
	CodeDeliveryFailed      = "DELIVERY_FAILED"
	CodeAuthFailed          = "AUTH_FAILED"
	CodeSyncUnavailable     = "SYNC_UNAVAILABLE"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// asDomainError maps lower-layer errors onto the client-facing taxonomy.
func asDomainError(err error) *DomainError {
	var derr *DomainError
	if errors.As(err, &derr) {
		return derr
	}
	var verr *report.ValidationError
	if errors.As(err, &verr) {
		return domainError(http.StatusUnprocessableEntity, CodeValidationFailed, verr.Message, map[string]string{"field": verr.Field})
	}
	switch {
	case errors.Is(err, store.ErrPermissionDenied):
		return domainError(http.StatusForbidden, CodePermissionDenied, "You do not own this report", nil)
	case errors.Is(err, store.ErrNotFound):
		return domainError(http.StatusNotFound, CodeNotFound, "Report not found", nil)
	case errors.Is(err, report.ErrNoClient):
		return domainError(http.StatusUnprocessableEntity, CodeValidationFailed, "Report has no client information", nil)
	case errors.Is(err, export.ErrRasterizerMissing), errors.Is(err, export.ErrRasterization):
		return domainError(http.StatusBadGateway, CodeRasterizationFailed, "PDF generation failed", nil)
	default:
		return domainError(http.StatusInternalServerError, CodePersistenceFailed, "Operation failed", nil)
	}
}
