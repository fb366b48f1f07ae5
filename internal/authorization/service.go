// Package authorization enforces role-based access over the property
// domain objects.
package authorization

import (
	"context"
	"errors"
)

var (
	ErrInvalidActor    = errors.New("invalid actor")
	ErrInvalidProperty = errors.New("invalid property")
	ErrInvalidObject   = errors.New("invalid object")
	ErrInvalidAction   = errors.New("invalid action")
	ErrForbidden       = errors.New("forbidden")
)

// Objects guarded by the enforcer.
const (
	ObjectProperty     = "property"
	ObjectRoom         = "room"
	ObjectAssignment   = "assignment"
	ObjectPayment      = "payment"
	ObjectMeal         = "meal"
	ObjectNotification = "notification"
)

// Actions on those objects.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionPaymentSettle = "settle"
	ActionMealEdit      = "edit_menu"
)

// Service answers whether an actor may perform an action on an object
// within a property.
type Service interface {
	Authorize(ctx context.Context, actor string, propertyID string, object string, action string) error
}
