package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	propertydomain "github.com/spacemate/spacemate/internal/property/domain"
	"github.com/spacemate/spacemate/pkg/db/pagination"
)

// ListProperties returns active listings. It serves the signup form, so no
// session is required; when one is present the gender filter defaults to
// the caller's profile.
func (s *Server) ListProperties(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	gender := c.Query("gender")
	if gender == "" {
		if userID, ok := s.userIDFromSession(c); ok {
			if profile, err := s.profileSvc.Get(c.Request.Context(), userID); err == nil && profile.Gender != nil {
				gender = *profile.Gender
			}
		}
	}

	properties, info, err := s.propertySvc.ListActive(c.Request.Context(), propertydomain.ListFilter{
		Gender: gender,
		City:   c.Query("city"),
	}, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"page_info":  info,
	})
}

func (s *Server) GetProperty(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid property id"))
		return
	}

	property, err := s.propertySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}
