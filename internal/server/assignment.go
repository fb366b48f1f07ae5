package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	assignmentdomain "github.com/spacemate/spacemate/internal/assignment/domain"
	"github.com/spacemate/spacemate/internal/authorization"
)

// ListOwnAssignments returns the caller's active assignment, if any.
func (s *Server) ListOwnAssignments(c *gin.Context) {
	userID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	assignment, err := s.assignmentSvc.ActiveByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, assignmentdomain.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"assignments": []assignmentdomain.RoomAssignment{}})
			return
		}
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": []assignmentdomain.RoomAssignment{*assignment}})
}

type EndAssignmentRequest struct {
	EndDate string `json:"end_date"`
}

// EndAssignment closes out a tenancy: the room is released and the
// property occupancy dropped along with the deactivation. Staff only.
func (s *Server) EndAssignment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid assignment id"))
		return
	}
	if !s.authorize(c, "", authorization.ObjectAssignment, authorization.ActionUpdate) {
		return
	}

	endDate := time.Now().UTC()
	if c.Request.ContentLength > 0 {
		var req EndAssignmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		if req.EndDate != "" {
			parsed, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				AbortWithError(c, newValidationError("end_date", "invalid_date", "invalid date, expected YYYY-MM-DD"))
				return
			}
			endDate = parsed
		}
	}

	assignment, err := s.assignmentSvc.End(c.Request.Context(), id, endDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// ListPropertyAssignments is the staff view over a property's residents.
func (s *Server) ListPropertyAssignments(c *gin.Context) {
	propertyID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid property id"))
		return
	}
	if !s.authorize(c, propertyID.String(), authorization.ObjectAssignment, authorization.ActionUpdate) {
		return
	}

	assignments, err := s.assignmentSvc.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}
