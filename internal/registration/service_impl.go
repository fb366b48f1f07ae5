package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	assignmentdomain "github.com/spacemate/spacemate/internal/assignment/domain"
	authdomain "github.com/spacemate/spacemate/internal/auth/domain"
	"github.com/spacemate/spacemate/internal/clock"
	mealdomain "github.com/spacemate/spacemate/internal/meal/domain"
	notificationdomain "github.com/spacemate/spacemate/internal/notification/domain"
	"github.com/spacemate/spacemate/internal/observability/metrics"
	paymentdomain "github.com/spacemate/spacemate/internal/payment/domain"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	propertydomain "github.com/spacemate/spacemate/internal/property/domain"
	"github.com/spacemate/spacemate/internal/registration/domain"
	roomdomain "github.com/spacemate/spacemate/internal/room/domain"
	"github.com/spacemate/spacemate/pkg/poll"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	profilePollInterval = 500 * time.Millisecond
	profilePollAttempts = 10

	depositDueAfter = 7 * 24 * time.Hour

	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	authsvc  authdomain.Service
	profiles profiledomain.Repository

	properties  propertydomain.Repository
	propertysvc propertydomain.Service
	rooms       roomdomain.Repository
	roomsvc     roomdomain.Service
	assignments assignmentdomain.Repository
	payments    paymentdomain.Repository
	meals       mealdomain.Service
	notifier    notificationdomain.Service

	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.Metrics
	poll    poll.Config
}

// Option tweaks service construction.
type Option func(*service)

// WithPollConfig overrides the profile readiness poll budget.
func WithPollConfig(cfg poll.Config) Option {
	return func(s *service) {
		s.poll = cfg
	}
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	authsvc authdomain.Service,
	profiles profiledomain.Repository,
	properties propertydomain.Repository,
	propertysvc propertydomain.Service,
	rooms roomdomain.Repository,
	roomsvc roomdomain.Service,
	assignments assignmentdomain.Repository,
	payments paymentdomain.Repository,
	meals mealdomain.Service,
	notifier notificationdomain.Service,
	genID *snowflake.Node,
	clk clock.Clock,
	m *metrics.Metrics,
	opts ...Option,
) domain.Service {
	svc := &service{
		db:          conn,
		log:         log.Named("registration.service"),
		authsvc:     authsvc,
		profiles:    profiles,
		properties:  properties,
		propertysvc: propertysvc,
		rooms:       rooms,
		roomsvc:     roomsvc,
		assignments: assignments,
		payments:    payments,
		meals:       meals,
		notifier:    notifier,
		genID:       genID,
		clock:       clk,
		metrics:     m,
		poll: poll.Config{
			Interval:    profilePollInterval,
			MaxAttempts: profilePollAttempts,
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CompleteGuestSignup books the selected room for a brand-new guest account.
// Prices come from the room and property rows, never from the request. The
// assignment, room claim, occupancy bump and deposit payment commit
// together or not at all.
func (s *service) CompleteGuestSignup(ctx context.Context, req domain.GuestSignupRequest) (*domain.Result, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" ||
		req.PGPropertyID == 0 || req.RoomID == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if req.JoinDate.IsZero() || req.EndDate.IsZero() || !req.EndDate.After(req.JoinDate) {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.authsvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     profiledomain.RoleGuest,
		Gender:   req.Gender,
	})
	if err != nil {
		s.metrics.RecordSignup(ctx, profiledomain.RoleGuest, outcomeFailure)
		return nil, err
	}

	result, err := s.finishGuestSignup(ctx, user, req)
	if err != nil {
		// The account from step one is deliberately kept; the caller can
		// retry the booking against it.
		s.metrics.RecordSignup(ctx, profiledomain.RoleGuest, outcomeFailure)
		return nil, err
	}

	s.metrics.RecordSignup(ctx, profiledomain.RoleGuest, outcomeSuccess)
	return result, nil
}

func (s *service) finishGuestSignup(ctx context.Context, user *authdomain.User, req domain.GuestSignupRequest) (*domain.Result, error) {
	room, err := s.rooms.FindByID(ctx, s.db, req.RoomID)
	if err != nil {
		if errors.Is(err, roomdomain.ErrNotFound) {
			return nil, domain.ErrReferenceNotFound
		}
		return nil, err
	}
	if room.PGPropertyID != req.PGPropertyID {
		return nil, domain.ErrReferenceNotFound
	}
	if !room.IsAvailable {
		return nil, domain.ErrRoomUnavailable
	}

	property, err := s.properties.FindByID(ctx, s.db, req.PGPropertyID)
	if err != nil {
		if errors.Is(err, propertydomain.ErrNotFound) {
			return nil, domain.ErrReferenceNotFound
		}
		return nil, err
	}
	if !genderCompatible(req.Gender, property.Gender) {
		return nil, domain.ErrGenderMismatch
	}

	now := s.clock.Now()
	profile := &profiledomain.Profile{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.DisplayName,
		Role:         profiledomain.RoleGuest,
		PGPropertyID: &property.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		profile.Phone = &phone
	}
	if gender := strings.TrimSpace(req.Gender); gender != "" {
		profile.Gender = &gender
	}
	if err := s.profiles.Upsert(ctx, s.db, profile); err != nil {
		return nil, err
	}

	endDate := req.EndDate
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.assignments.Insert(ctx, tx, &assignmentdomain.RoomAssignment{
			ID:              s.genID.Generate(),
			UserID:          user.ID,
			PGPropertyID:    property.ID,
			RoomID:          room.ID,
			StartDate:       req.JoinDate,
			EndDate:         &endDate,
			MonthlyRent:     room.Price,
			SecurityDeposit: property.SecurityDeposit,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrAssignment, err)
		}

		if err := s.rooms.Claim(ctx, tx, room.ID); err != nil {
			if errors.Is(err, roomdomain.ErrUnavailable) {
				return domain.ErrRoomUnavailable
			}
			return err
		}

		if err := s.properties.IncrementOccupied(ctx, tx, property.ID); err != nil {
			if errors.Is(err, propertydomain.ErrNotActive) {
				return domain.ErrReferenceNotFound
			}
			return err
		}

		return s.payments.Insert(ctx, tx, &paymentdomain.Payment{
			ID:           s.genID.Generate(),
			UserID:       user.ID,
			PGPropertyID: property.ID,
			Type:         paymentdomain.TypeDeposit,
			Amount:       property.SecurityDeposit,
			Currency:     paymentdomain.CurrencyINR,
			Status:       paymentdomain.StatusPending,
			Description:  paymentdomain.DepositDescription,
			DueDate:      now.Add(depositDueAfter),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if err != nil {
		s.metrics.RecordRoomClaim(ctx, outcomeFailure)
		return nil, err
	}
	s.metrics.RecordRoomClaim(ctx, outcomeSuccess)

	s.log.Info("guest signup completed",
		zap.String("user_id", user.ID.String()),
		zap.String("pg_property_id", property.ID.String()),
		zap.String("room_id", room.ID.String()),
	)

	return s.login(ctx, req.Email, req.Password, req.UserAgent, req.IPAddress, user.ID, property.ID)
}

// CompletePGAdminSignup creates the admin account, registers the property,
// links the profile, and seeds rooms, meals and the welcome notification.
// Seeding failures are logged and do not fail the signup.
func (s *service) CompletePGAdminSignup(ctx context.Context, req domain.AdminSignupRequest) (*domain.Result, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" ||
		strings.TrimSpace(req.PropertyName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.authsvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Role:         profiledomain.RolePGAdmin,
		AdminSubRole: req.AdminSubRole,
	})
	if err != nil {
		s.metrics.RecordSignup(ctx, profiledomain.RolePGAdmin, outcomeFailure)
		return nil, err
	}

	result, err := s.finishPGAdminSignup(ctx, user, req)
	if err != nil {
		s.metrics.RecordSignup(ctx, profiledomain.RolePGAdmin, outcomeFailure)
		return nil, err
	}

	s.metrics.RecordSignup(ctx, profiledomain.RolePGAdmin, outcomeSuccess)
	return result, nil
}

func (s *service) finishPGAdminSignup(ctx context.Context, user *authdomain.User, req domain.AdminSignupRequest) (*domain.Result, error) {
	if err := s.awaitProfile(ctx, user.ID, profiledomain.RolePGAdmin); err != nil {
		return nil, err
	}

	property, err := s.propertysvc.Create(ctx, propertydomain.CreateRequest{
		Name:            req.PropertyName,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		ContactNumber:   req.Phone,
		ManagerName:     req.FullName,
		TotalRooms:      req.TotalRooms,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		Gender:          req.Gender,
		PGType:          req.PGType,
		Description:     req.Description,
		Amenities:       req.Amenities,
		Rules:           req.Rules,
		CreatedBy:       user.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.linkProfileVerified(ctx, user.ID, property.ID, req.Phone); err != nil {
		return nil, err
	}

	if _, err := s.roomsvc.GenerateForProperty(ctx, property.ID, req.TotalRooms, req.MonthlyRent); err != nil {
		s.log.Warn("room generation failed",
			zap.String("pg_property_id", property.ID.String()),
			zap.Error(err),
		)
	}
	if _, err := s.meals.SeedDefaults(ctx, property.ID, user.ID, s.clock.Now()); err != nil {
		s.log.Warn("meal seeding failed",
			zap.String("pg_property_id", property.ID.String()),
			zap.Error(err),
		)
	}
	if _, err := s.notifier.Create(ctx, notificationdomain.CreateRequest{
		PGPropertyID: &property.ID,
		Title:        "Welcome to Space Mate!",
		Message:      fmt.Sprintf("Your PG property %q has been successfully registered.", property.Name),
		Type:         notificationdomain.TypeGeneral,
	}); err != nil {
		s.log.Warn("welcome notification failed",
			zap.String("pg_property_id", property.ID.String()),
			zap.Error(err),
		)
	}

	s.log.Info("pg admin signup completed",
		zap.String("user_id", user.ID.String()),
		zap.String("pg_property_id", property.ID.String()),
	)

	return s.login(ctx, req.Email, req.Password, req.UserAgent, req.IPAddress, user.ID, property.ID)
}

// CompleteWardenSignup attaches a new warden account to an existing
// property. Everything here is fail-fast.
func (s *service) CompleteWardenSignup(ctx context.Context, req domain.WardenSignupRequest) (*domain.Result, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" ||
		req.PGPropertyID == 0 {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.authsvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     profiledomain.RoleWarden,
	})
	if err != nil {
		s.metrics.RecordSignup(ctx, profiledomain.RoleWarden, outcomeFailure)
		return nil, err
	}

	result, err := s.finishWardenSignup(ctx, user, req)
	if err != nil {
		s.metrics.RecordSignup(ctx, profiledomain.RoleWarden, outcomeFailure)
		return nil, err
	}

	s.metrics.RecordSignup(ctx, profiledomain.RoleWarden, outcomeSuccess)
	return result, nil
}

func (s *service) finishWardenSignup(ctx context.Context, user *authdomain.User, req domain.WardenSignupRequest) (*domain.Result, error) {
	if err := s.awaitProfile(ctx, user.ID, profiledomain.RoleWarden); err != nil {
		return nil, err
	}

	if _, err := s.properties.FindByID(ctx, s.db, req.PGPropertyID); err != nil {
		if errors.Is(err, propertydomain.ErrNotFound) {
			return nil, domain.ErrReferenceNotFound
		}
		return nil, err
	}

	if err := s.linkProfileVerified(ctx, user.ID, req.PGPropertyID, req.Phone); err != nil {
		return nil, err
	}

	s.log.Info("warden signup completed",
		zap.String("user_id", user.ID.String()),
		zap.String("pg_property_id", req.PGPropertyID.String()),
	)

	return s.login(ctx, req.Email, req.Password, req.UserAgent, req.IPAddress, user.ID, req.PGPropertyID)
}

// awaitProfile waits for the directory rows to become visible. Row creation
// is transactional with the account, so this only guards against lagging
// read paths, with the fixed 10x500ms budget.
func (s *service) awaitProfile(ctx context.Context, userID snowflake.ID, role string) error {
	err := poll.Until(ctx, s.poll, func(ctx context.Context) (bool, error) {
		exists, err := s.profiles.Exists(ctx, s.db, userID)
		if err != nil || !exists {
			return false, err
		}
		return s.profiles.HasRole(ctx, s.db, userID, role)
	})
	if errors.Is(err, poll.ErrExhausted) {
		return domain.ErrProfileNotReady
	}
	return err
}

// linkProfileVerified writes the property link, reads it back, and retries
// the write once before giving up.
func (s *service) linkProfileVerified(ctx context.Context, userID, propertyID snowflake.ID, phone string) error {
	for attempt := 0; attempt < 2; attempt++ {
		if err := s.linkProfile(ctx, userID, propertyID, phone); err != nil {
			return err
		}

		profile, err := s.profiles.FindByID(ctx, s.db, userID)
		if err != nil {
			return err
		}
		if profile.PGPropertyID != nil && *profile.PGPropertyID == propertyID {
			return nil
		}

		s.log.Warn("profile link not visible, retrying",
			zap.String("user_id", userID.String()),
			zap.String("pg_property_id", propertyID.String()),
		)
	}
	return domain.ErrProfileNotReady
}

func (s *service) linkProfile(ctx context.Context, userID, propertyID snowflake.ID, phone string) error {
	fields := map[string]any{
		"pg_property_id": propertyID,
		"updated_at":     s.clock.Now(),
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		fields["phone"] = phone
	}
	return s.profiles.UpdateFields(ctx, s.db, userID, fields)
}

func (s *service) login(ctx context.Context, email, password, userAgent, ipAddress string, userID, propertyID snowflake.ID) (*domain.Result, error) {
	session, err := s.authsvc.Login(ctx, authdomain.LoginRequest{
		Email:     email,
		Password:  password,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	})
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		Session:      session.Session,
		RawToken:     session.RawToken,
		ExpiresAt:    session.ExpiresAt,
		UserID:       userID,
		PGPropertyID: propertyID,
	}, nil
}

// genderCompatible applies the listing rule: male and female guests match
// their own listings plus unisex ones; unisex listings take everyone.
func genderCompatible(guestGender, propertyGender string) bool {
	if propertyGender == propertydomain.GenderUnisex {
		return true
	}
	guest := strings.ToLower(strings.TrimSpace(guestGender))
	return guest == "" || guest == propertyGender
}
