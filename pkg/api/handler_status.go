package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

func (s *Server) statusHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok", Service: "LLM Council API"})
}
