package model

import (
	"context"
	"strings"
	"time"

	"sporti/shared/constant"
)

// Draft is a booking request as submitted, before it is validated, priced and allocated.
type Draft struct {
	BookingType Type
	Channel     Channel
	BookingFor  For
	Relation    Relation
	CheckIn     time.Time
	CheckOut    time.Time
	Location    string
	Category    string
	GuestCount  int
	ResourceID  string
	Remarks     string
	AutoConfirm bool
	Occupant    Occupant
	Officer     Officer
}

// Actor is the caller a request is made on behalf of. A zero Actor is anonymous.
type Actor struct {
	ID          string
	Role        string
	Designation string
}

func (a Actor) IsAdmin() bool {
	return a.Role == constant.RoleAdmin
}

func (a Actor) Anonymous() bool {
	return a.ID == ""
}

// Name is used for the created_by / modified_by audit columns.
func (a Actor) Name() string {
	if a.Anonymous() {
		return constant.ContextGuest
	}

	return a.ID
}

// ActorFromContext builds the actor from the claims the auth middleware put on ctx.
func ActorFromContext(ctx context.Context) Actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	designation, _ := ctx.Value(constant.ContextKeyUserRank).(string)

	return Actor{
		ID:          id,
		Role:        role,
		Designation: strings.TrimSpace(designation),
	}
}
