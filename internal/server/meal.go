package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacemate/spacemate/internal/authorization"
)

type SetMenuRequest struct {
	Menu string `json:"menu"`
}

// ListMeals returns today's menu (or the requested date) for the caller's
// property.
func (s *Server) ListMeals(c *gin.Context) {
	propertyID, err := parseID(c.Query("pg_property_id"))
	if err != nil {
		AbortWithError(c, newValidationError("pg_property_id", "invalid_id", "invalid property id"))
		return
	}
	if !s.authorize(c, propertyID.String(), authorization.ObjectMeal, authorization.ActionView) {
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	meals, err := s.mealSvc.ListByProperty(c.Request.Context(), propertyID, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (s *Server) SetMealMenu(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid meal id"))
		return
	}
	if !s.authorize(c, "", authorization.ObjectMeal, authorization.ActionMealEdit) {
		return
	}

	var req SetMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Menu == "" {
		AbortWithError(c, newValidationError("menu", "required", "menu is required"))
		return
	}

	if err := s.mealSvc.SetMenu(c.Request.Context(), id, req.Menu); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
