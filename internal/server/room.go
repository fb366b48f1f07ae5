package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPropertyRooms lists a property's available rooms. Public, like the
// property listing: the guest signup form picks a room before any account
// exists.
func (s *Server) ListPropertyRooms(c *gin.Context) {
	propertyID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid property id"))
		return
	}

	rooms, err := s.roomSvc.ListAvailable(c.Request.Context(), propertyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}
