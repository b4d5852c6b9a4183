package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/server/validation"
)

// errorKind is one row of the error → HTTP mapping.
type errorKind struct {
	status  int
	code    string
	message string
}

// classify is the single place where service errors become HTTP replies.
func classify(err error) (errorKind, []validation.FieldError) {
	var verrs validation.Errors
	var dup *common.DuplicateError

	switch {
	case errors.As(err, &verrs):
		return errorKind{http.StatusBadRequest, "validation", verrs.Error()}, verrs
	case errors.As(err, &dup):
		return errorKind{http.StatusForbidden, "duplicate_credential", dup.Error()}, nil
	case errors.Is(err, common.ErrDuplicateCredential):
		return errorKind{http.StatusForbidden, "duplicate_credential", "[email] credentials taken"}, nil
	case errors.Is(err, common.ErrInvalidCredentials):
		return errorKind{http.StatusForbidden, "invalid_credentials", "Credentials incorrect"}, nil
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrMissingToken),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return errorKind{http.StatusUnauthorized, "unauthorized", "unauthorized"}, nil
	case errors.Is(err, common.ErrForbidden):
		return errorKind{http.StatusForbidden, "forbidden", "Access to resources denied"}, nil
	case errors.Is(err, common.ErrorNotFound):
		return errorKind{http.StatusNotFound, "not_found", "not found"}, nil
	case errors.Is(err, common.ErrInfrastructure),
		errors.Is(err, context.DeadlineExceeded):
		return errorKind{http.StatusServiceUnavailable, "service_unavailable", "service unavailable"}, nil
	}
	return errorKind{http.StatusInternalServerError, "internal", "internal error"}, nil
}

// writeError maps err to a status and body. Server-side failures are logged
// with the underlying error; the client only sees the generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind, fields := classify(err)

	if kind.status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "error", err, "status", kind.status)
	}

	writeJSON(w, kind.status, errorResponse{Error: kind.code, Message: kind.message, Fields: fields})
}
