// Package domain defines the registration workflows and their error
// taxonomy.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/spacemate/spacemate/internal/auth/domain"
)

var (
	ErrInvalidRequest = errors.New("invalid signup request")
	// ErrReferenceNotFound means the room or property selected during the
	// form step no longer exists.
	ErrReferenceNotFound = errors.New("selected room or property not found")
	ErrRoomUnavailable   = errors.New("room no longer available")
	// ErrGenderMismatch is returned when the guest's gender does not match
	// the property listing.
	ErrGenderMismatch = errors.New("property does not accept this gender")
	// ErrProfileNotReady is returned when the directory rows never became
	// visible within the poll budget.
	ErrProfileNotReady = errors.New("profile not ready")
	ErrAssignment      = errors.New("room assignment failed")
)

// Service runs the three registration workflows. Each one creates the
// account first and then completes the role-specific onboarding.
type Service interface {
	CompleteGuestSignup(ctx context.Context, req GuestSignupRequest) (*Result, error)
	CompletePGAdminSignup(ctx context.Context, req AdminSignupRequest) (*Result, error)
	CompleteWardenSignup(ctx context.Context, req WardenSignupRequest) (*Result, error)
}

type GuestSignupRequest struct {
	Email        string       `json:"email"`
	Password     string       `json:"password"`
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	Gender       string       `json:"gender"`
	PGPropertyID snowflake.ID `json:"pg_property_id"`
	RoomID       snowflake.ID `json:"room_id"`
	// JoinDate and EndDate are the stay window the guest picked on the
	// booking form.
	JoinDate  time.Time `json:"join_date"`
	EndDate   time.Time `json:"end_date"`
	UserAgent string    `json:"-"`
	IPAddress string    `json:"-"`
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

	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type WardenSignupRequest struct {
	Email        string       `json:"email"`
	Password     string       `json:"password"`
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	PGPropertyID snowflake.ID `json:"pg_property_id"`
	UserAgent    string       `json:"-"`
	IPAddress    string       `json:"-"`
}

type Result struct {
	Session      *authdomain.SessionView
	RawToken     string
	ExpiresAt    time.Time
	UserID       snowflake.ID
	PGPropertyID snowflake.ID
}
