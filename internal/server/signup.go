package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	registrationdomain "github.com/spacemate/spacemate/internal/registration/domain"
)

type GuestSignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	PGPropertyID string `json:"pg_property_id"`
	RoomID       string `json:"room_id"`
	JoinDate     string `json:"join_date"`
	EndDate      string `json:"end_date"`
}

type AdminSignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AdminSubRole string `json:"admin_sub_role"`

	PropertyName    string   `json:"property_name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	Pincode         string   `json:"pincode"`
	TotalRooms      int      `json:"total_rooms"`
	MonthlyRent     int64    `json:"monthly_rent"`
	SecurityDeposit int64    `json:"security_deposit"`
	Gender          string   `json:"gender"`
	PGType          string   `json:"pg_type"`
	Description     string   `json:"description"`
	Amenities       []string `json:"amenities"`
	Rules           []string `json:"rules"`
}

type WardenSignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	PGPropertyID string `json:"pg_property_id"`
}

func (s *Server) SignupGuest(c *gin.Context) {
	var req GuestSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	propertyID, err := parseID(req.PGPropertyID)
	if err != nil {
		AbortWithError(c, newValidationError("pg_property_id", "invalid_id", "invalid property id"))
		return
	}
	roomID, err := parseID(req.RoomID)
	if err != nil {
		AbortWithError(c, newValidationError("room_id", "invalid_id", "invalid room id"))
		return
	}
	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		AbortWithError(c, newValidationError("join_date", "invalid_date", "invalid date, expected YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_date", "invalid date, expected YYYY-MM-DD"))
		return
	}

	result, err := s.registrationSvc.CompleteGuestSignup(c.Request.Context(), registrationdomain.GuestSignupRequest{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Gender:       req.Gender,
		PGPropertyID: propertyID,
		RoomID:       roomID,
		JoinDate:     joinDate,
		EndDate:      endDate,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, result.Session)
}

func (s *Server) SignupPGAdmin(c *gin.Context) {
	var req AdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.registrationSvc.CompletePGAdminSignup(c.Request.Context(), registrationdomain.AdminSignupRequest{
		Email:           req.Email,
		Password:        req.Password,
		FullName:        req.FullName,
		Phone:           req.Phone,
		AdminSubRole:    req.AdminSubRole,
		PropertyName:    req.PropertyName,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		TotalRooms:      req.TotalRooms,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		Gender:          req.Gender,
		PGType:          req.PGType,
		Description:     req.Description,
		Amenities:       req.Amenities,
		Rules:           req.Rules,
		UserAgent:       c.Request.UserAgent(),
		IPAddress:       c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, result.Session)
}

func (s *Server) SignupWarden(c *gin.Context) {
	var req WardenSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	propertyID, err := parseID(req.PGPropertyID)
	if err != nil {
		AbortWithError(c, newValidationError("pg_property_id", "invalid_id", "invalid property id"))
		return
	}

	result, err := s.registrationSvc.CompleteWardenSignup(c.Request.Context(), registrationdomain.WardenSignupRequest{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Phone:        req.Phone,
		PGPropertyID: propertyID,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, result.Session)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(raw)
}
