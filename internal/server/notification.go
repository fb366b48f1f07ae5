package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spacemate/spacemate/internal/authorization"
)

// ListOwnNotifications returns the caller's personal notifications plus any
// property-wide announcements addressed to them.
func (s *Server) ListOwnNotifications(c *gin.Context) {
	userID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	notifications, err := s.notificationSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (s *Server) ListPropertyNotifications(c *gin.Context) {
	propertyID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid property id"))
		return
	}
	if !s.authorize(c, propertyID.String(), authorization.ObjectNotification, authorization.ActionView) {
		return
	}

	notifications, err := s.notificationSvc.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationRead flips the read flag. A row addressed to a user can
// only be marked by that user or by staff; property-wide rows are shared
// state, so only staff may mark them.
func (s *Server) MarkNotificationRead(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid notification id"))
		return
	}
	userID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if !s.authorize(c, "", authorization.ObjectNotification, authorization.ActionUpdate) {
		return
	}

	notification, err := s.notificationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	owned := notification.UserID != nil && *notification.UserID == userID
	if !owned && !isStaffRole(s.roleFromSession(c)) {
		AbortWithError(c, ErrForbidden)
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
