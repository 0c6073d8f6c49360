package api

import (
	"net/http"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"
)

func (s *Server) listConversationsHandler(c *echo.Context) error {
	identity := identityFrom(c)

	convs, err := s.store.ListByUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return mapError(err)
	}

	out := make([]conversationMetadata, 0, len(convs))
	for _, conv := range convs {
		out = append(out, toMetadata(conv))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createConversationHandler(c *echo.Context) error {
	identity := identityFrom(c)

	conv, err := s.store.CreateConversation(c.Request().Context(), uuid.NewString(), identity.UserID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, conv)
}

func (s *Server) getConversationHandler(c *echo.Context) error {
	identity := identityFrom(c)

	conv, err := s.store.GetConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	if conv.UserID != identity.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "conversation belongs to another user")
	}
	return c.JSON(http.StatusOK, conv)
}
