package api

import (
	"errors"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/storage"
)

// mapError maps a domain-layer error to an HTTP error response, matching
// pkg/api/errors.go's mapServiceError shape generalized to the council's
// own error taxonomy (spec §7).
func mapError(err error) *echo.HTTPError {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return echo.NewHTTPError(http.StatusUnauthorized, authErr.Error())
	}

	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		return echo.NewHTTPError(http.StatusConflict, "conversation already exists")
	}
	if errors.Is(err, storage.ErrInvalidID) {
		// Treated the same as not-found rather than a 400: a malformed ID and
		// a well-formed-but-missing one should be indistinguishable to a
		// caller probing for valid conversation IDs.
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	var storageErr *storage.StorageError
	if errors.As(err, &storageErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, "storage error")
	}

	var defErr *engine.WorkflowDefinitionError
	if errors.As(err, &defErr) {
		return echo.NewHTTPError(http.StatusBadRequest, defErr.Error())
	}
	var stageErr *engine.StageExecutionError
	if errors.As(err, &stageErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, stageErr.Error())
	}

	slog.Error("unexpected error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
