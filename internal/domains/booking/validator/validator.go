// Package validator checks a booking draft before it is priced or allocated.
//
// Checks run in a fixed order and the first failure is returned, so a caller always
// sees the most fundamental problem first.
package validator

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"sporti/config"
	"sporti/internal/domains/booking/model"
	"sporti/internal/domains/pricing"
	"sporti/internal/domains/site"
	"sporti/shared/failure"
	gValidator "sporti/shared/validator"
	"sporti/shared/timezone"
)

const (
	phoneRule = "len=10,number"
	emailRule = "email"
)

type Validator struct {
	catalog *site.Catalog
	cfg     *config.Config
	now     func() time.Time
}

func New(cfg *config.Config, catalog *site.Catalog) *Validator {
	return &Validator{
		catalog: catalog,
		cfg:     cfg,
		now:     timezone.Now,
	}
}

func (v *Validator) Validate(draft model.Draft, actor model.Actor) error {
	if err := v.CheckInterval(draft); err != nil {
		return err
	}

	if err := v.CheckOffering(draft, actor); err != nil {
		return err
	}

	if err := CheckOccupant(draft); err != nil {
		return err
	}

	if draft.Channel == model.ChannelNonMember {
		if err := CheckOfficer(draft); err != nil {
			return err
		}
	}

	return CheckRelation(draft)
}

// Canonical spells the draft's category or service type the way the catalogue does, so
// it matches stored resources exactly. Unknown names are left as they are.
func (v *Validator) Canonical(draft model.Draft) model.Draft {
	if draft.BookingType == model.TypeService {
		if name, ok := v.catalog.ServiceType(draft.Location, draft.Category); ok {
			draft.Category = name
		}

		return draft
	}

	if category, ok := v.catalog.Category(draft.Location, draft.Category); ok {
		draft.Category = category.Name
	}

	return draft
}

// CheckInterval rejects stays starting before today, empty or inverted stays and stays
// longer than the configured maximum.
func (v *Validator) CheckInterval(draft model.Draft) error {
	if draft.CheckIn.IsZero() || draft.CheckOut.IsZero() {
		return failure.BadRequestFromString("Check-in and check-out dates are required")
	}

	if draft.CheckIn.Before(timezone.StartOfDay(v.now())) {
		return failure.BadRequestFromString("Check-in date cannot be in the past")
	}

	if !draft.CheckIn.Before(draft.CheckOut) {
		return failure.BadRequestFromString("Check-out date must be after check-in date")
	}

	if limit := v.cfg.Booking.MaxStayNights; limit > 0 && pricing.Nights(draft.CheckIn, draft.CheckOut) > limit {
		return failure.BadRequestFromString(fmt.Sprintf("A stay cannot be longer than %d nights", limit))
	}

	return nil
}

// CheckOffering verifies the location offers the requested category or service type and
// that the actor may book it. Administrators bypass designation gates.
func (v *Validator) CheckOffering(draft model.Draft, actor model.Actor) error {
	if _, ok := v.catalog.Site(draft.Location); !ok {
		return failure.BadRequestFromString(fmt.Sprintf("Unknown location %s", draft.Location))
	}

	if draft.BookingType == model.TypeService {
		if _, ok := v.catalog.ServiceType(draft.Location, draft.Category); !ok {
			return failure.BadRequestFromString(fmt.Sprintf("%s is not available at %s", draft.Category, draft.Location))
		}

		if draft.GuestCount < 1 {
			return failure.BadRequestFromString("Number of guests must be at least 1")
		}

		return nil
	}

	category, ok := v.catalog.Category(draft.Location, draft.Category)
	if !ok {
		return failure.BadRequestFromString(fmt.Sprintf("%s rooms are not available at %s", draft.Category, draft.Location))
	}

	if !actor.IsAdmin() && !category.Permits(actor.Designation) {
		return failure.BadRequestFromString(fmt.Sprintf(
			"%s rooms at %s are reserved for %s",
			category.Name, draft.Location, strings.Join(category.Designations, ", "),
		))
	}

	return nil
}

// CheckOccupant requires an e-mail for non-member applicants only.
func CheckOccupant(draft model.Draft) error {
	occupant := draft.Occupant

	if strings.TrimSpace(occupant.Name) == "" {
		return failure.BadRequestFromString("Occupant name is required")
	}

	if !gValidator.Satisfies(occupant.Phone, phoneRule) {
		return failure.BadRequestFromString("Occupant phone number must be 10 digits")
	}

	if occupant.Email == "" && draft.Channel == model.ChannelNonMember {
		return failure.BadRequestFromString("Occupant email is required")
	}

	if occupant.Email != "" && !gValidator.Satisfies(occupant.Email, emailRule) {
		return failure.BadRequestFromString("Occupant email is not valid")
	}

	if strings.TrimSpace(occupant.HomeLocation) == "" {
		return failure.BadRequestFromString("Occupant home location is required")
	}

	return nil
}

func CheckOfficer(draft model.Draft) error {
	officer := draft.Officer

	if strings.TrimSpace(officer.Name) == "" {
		return failure.BadRequestFromString("Officer name is required")
	}

	if strings.TrimSpace(officer.Designation) == "" {
		return failure.BadRequestFromString("Officer designation is required")
	}

	if !gValidator.Satisfies(officer.Phone, phoneRule) {
		return failure.BadRequestFromString("Officer phone number must be 10 digits")
	}

	if !gValidator.Satisfies(officer.Email, "required,"+emailRule) {
		return failure.BadRequestFromString("Officer email is not valid")
	}

	return nil
}

func CheckRelation(draft model.Draft) error {
	allowed := model.Relations(draft.BookingFor)
	if len(allowed) == 0 {
		return failure.BadRequestFromString("Booking must be for Self or Guest")
	}

	if !slices.Contains(allowed, draft.Relation) {
		return failure.BadRequestFromString(fmt.Sprintf("%s is not a valid relation for a %s booking", draft.Relation, draft.BookingFor))
	}

	return nil
}
