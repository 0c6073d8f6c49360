package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/tarsy/pkg/registry"
)

func (s *Server) listWorkflowsHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.registry.List())
}

func (s *Server) getWorkflowHandler(c *echo.Context) error {
	def, ok := s.registry.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "workflow not found")
	}

	resp := struct {
		workflowMetadataResponse
		DAG registry.DAG `json:"dag"`
	}{
		workflowMetadataResponse: workflowMetadataResponse{
			ID:          def.ID,
			Name:        def.Name,
			Version:     def.Version,
			Description: def.Description,
		},
		DAG: registry.ToDAG(def),
	}
	return c.JSON(http.StatusOK, resp)
}
