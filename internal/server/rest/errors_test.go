package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/server/validation"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"duplicate", &common.DuplicateError{Fields: []string{"email"}}, http.StatusForbidden, "[email] credentials taken"},
		{"wrapped duplicate", fmt.Errorf("signup: %w", &common.DuplicateError{Fields: []string{"email"}}), http.StatusForbidden, "[email] credentials taken"},
		{"invalid credentials", common.ErrInvalidCredentials, http.StatusForbidden, "Credentials incorrect"},
		{"missing token", common.ErrMissingToken, http.StatusUnauthorized, "unauthorized"},
		{"invalid token", common.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"expired token", common.ErrTokenExpired, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", common.ErrForbidden, http.StatusForbidden, "Access to resources denied"},
		{"not found", common.ErrorNotFound, http.StatusNotFound, "not found"},
		{"validation", validation.Errors{{Field: "email", Message: "Email is required."}}, http.StatusBadRequest, "Email is required."},
		{"infrastructure", fmt.Errorf("%w: %w", common.ErrInfrastructure, context.DeadlineExceeded), http.StatusServiceUnavailable, "service unavailable"},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, "service unavailable"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _ := classify(tt.err)
			assert.Equal(t, tt.status, kind.status)
			assert.Equal(t, tt.message, kind.message)
		})
	}
}
