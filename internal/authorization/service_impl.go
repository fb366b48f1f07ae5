package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(db *gorm.DB, log *zap.Logger, enforcer *casbin.SyncedEnforcer) Service {
	return &ServiceImpl{
		db:       db,
		log:      log.Named("authorization.service"),
		enforcer: enforcer,
	}
}

// seedPolicies installs the role capability matrix. Rules are idempotent;
// AddPolicy ignores duplicates already persisted by the adapter.
func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{"role:super_admin", "*", "*", "*"},

		{"role:pg_admin", "*", ObjectProperty, ActionView},
		{"role:pg_admin", "*", ObjectProperty, ActionCreate},
		{"role:pg_admin", "*", ObjectProperty, ActionUpdate},
		{"role:pg_admin", "*", ObjectRoom, ActionView},
		{"role:pg_admin", "*", ObjectRoom, ActionCreate},
		{"role:pg_admin", "*", ObjectRoom, ActionUpdate},
		{"role:pg_admin", "*", ObjectAssignment, ActionView},
		{"role:pg_admin", "*", ObjectAssignment, ActionUpdate},
		{"role:pg_admin", "*", ObjectPayment, ActionView},
		{"role:pg_admin", "*", ObjectPayment, ActionPaymentSettle},
		{"role:pg_admin", "*", ObjectMeal, ActionView},
		{"role:pg_admin", "*", ObjectMeal, ActionMealEdit},
		{"role:pg_admin", "*", ObjectNotification, ActionView},
		{"role:pg_admin", "*", ObjectNotification, ActionCreate},
		{"role:pg_admin", "*", ObjectNotification, ActionUpdate},

		{"role:warden", "*", ObjectProperty, ActionView},
		{"role:warden", "*", ObjectRoom, ActionView},
		{"role:warden", "*", ObjectRoom, ActionUpdate},
		{"role:warden", "*", ObjectAssignment, ActionView},
		{"role:warden", "*", ObjectAssignment, ActionUpdate},
		{"role:warden", "*", ObjectMeal, ActionView},
		{"role:warden", "*", ObjectMeal, ActionMealEdit},
		{"role:warden", "*", ObjectNotification, ActionView},
		{"role:warden", "*", ObjectNotification, ActionCreate},
		{"role:warden", "*", ObjectNotification, ActionUpdate},

		{"role:guest", "*", ObjectProperty, ActionView},
		{"role:guest", "*", ObjectRoom, ActionView},
		{"role:guest", "*", ObjectAssignment, ActionView},
		{"role:guest", "*", ObjectPayment, ActionView},
		{"role:guest", "*", ObjectPayment, ActionPaymentSettle},
		{"role:guest", "*", ObjectMeal, ActionView},
		{"role:guest", "*", ObjectNotification, ActionView},
		{"role:guest", "*", ObjectNotification, ActionUpdate},
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2], p[3]); err != nil {
			return err
		}
	}
	return nil
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, propertyID string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, err := s.resolveActor(ctx, actor)
	if err != nil {
		return err
	}

	domain := "*"
	if propertyID = strings.TrimSpace(propertyID); propertyID != "" {
		domain = fmt.Sprintf("property:%s", propertyID)
	}
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string) (string, string, error) {
	if actor == "system" {
		return actor, "role:super_admin", nil
	}
	if strings.HasPrefix(actor, "user:") {
		userIDRaw := strings.TrimPrefix(actor, "user:")
		userID, err := snowflake.ParseString(userIDRaw)
		if err != nil || userID == 0 {
			return "", "", ErrInvalidActor
		}
		role, err := s.roleForUser(ctx, userID)
		if err != nil {
			return "", "", err
		}
		return actor, fmt.Sprintf("role:%s", strings.ToLower(role)), nil
	}
	return "", "", ErrInvalidActor
}

func (s *ServiceImpl) roleForUser(ctx context.Context, userID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	if err := s.db.WithContext(ctx).
		Model(&profiledomain.Profile{}).
		Select("role").
		Where("id = ?", userID).
		Limit(1).
		Scan(&row).Error; err != nil {
		return "", err
	}

	role := strings.TrimSpace(row.Role)
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", "*")
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		_, _ = s.enforcer.RemoveGroupingPolicy(params...)
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, "*")
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, "*")
	return err
}

var Module = fx.Module("authorization.service",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
