package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	"go.uber.org/zap"
)

const (
	contextUserIDKey = "user_id"
	contextRoleKey   = "role"
)

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID.String())

		profile, err := s.profileSvc.Get(c.Request.Context(), session.UserID)
		if err == nil {
			c.Set(contextRoleKey, profile.Role)
		}

		c.Next()
	}
}

func (s *Server) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(contextRoleKey)
		current, _ := role.(string)
		for _, want := range roles {
			if current == want {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// SignupRateLimit throttles the public signup endpoints per client IP. When
// the limiter is disabled (nil) every request passes.
func (s *Server) SignupRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.signupLimiter.Enabled() {
			c.Next()
			return
		}

		allowed, err := s.signupLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis trouble must not take signups down with it.
			s.log.Warn("signup rate limit check failed", zap.Error(err))
			s.metrics.RecordRateLimitAllowed(c.Request.Context(), "signup")
			c.Next()
			return
		}
		if !allowed {
			s.metrics.RecordRateLimitDenied(c.Request.Context(), "signup", "ip_bucket")
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		s.metrics.RecordRateLimitAllowed(c.Request.Context(), "signup")
		c.Next()
	}
}

func (s *Server) userIDFromSession(c *gin.Context) (snowflake.ID, bool) {
	raw, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	str, ok := raw.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return 0, false
	}
	id, err := snowflake.ParseString(str)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) roleFromSession(c *gin.Context) string {
	raw, _ := c.Get(contextRoleKey)
	role, _ := raw.(string)
	return role
}

// isStaffRole reports whether the role may act on rows it does not own.
func isStaffRole(role string) bool {
	switch role {
	case profiledomain.RoleSuperAdmin, profiledomain.RolePGAdmin, profiledomain.RoleWarden:
		return true
	}
	return false
}

func (s *Server) authorize(c *gin.Context, propertyID, object, action string) bool {
	userID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return false
	}
	if err := s.authzSvc.Authorize(c.Request.Context(), "user:"+userID.String(), propertyID, object, action); err != nil {
		AbortWithError(c, err)
		return false
	}
	return true
}
