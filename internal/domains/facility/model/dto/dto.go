package dto

import (
	"sporti/internal/domains/facility/model"
	"sporti/shared"
	gDto "sporti/shared/dto"
	gModel "sporti/shared/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateServiceRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Location    string   `json:"location"    validate:"required,max=50"`
	Type        string   `json:"type"        validate:"required,max=50"`
	Capacity    int      `json:"capacity"    validate:"required,gte=1"`
	MemberRate  int64    `json:"member_rate" validate:"gte=0"`
	GuestRate   int64    `json:"guest_rate"  validate:"gte=0"`
	Facilities  []string `json:"facilities"  validate:"omitempty,dive,max=50"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
}

func (c *CreateServiceRequest) ToModel(user string) model.Service {
	return model.Service{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Location:    c.Location,
		Type:        c.Type,
		Capacity:    c.Capacity,
		MemberRate:  c.MemberRate,
		GuestRate:   c.GuestRate,
		Facilities:  pq.StringArray(c.Facilities),
		Description: c.Description,
		Metadata:    gModel.NewMetadata(user),
	}
}

type UpdateServiceRequest struct {
	Name        string         `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Capacity    *int           `db:"capacity"    json:"capacity"    validate:"omitempty,gte=1"`
	MemberRate  *int64         `db:"member_rate" json:"member_rate" validate:"omitempty,gte=0"`
	GuestRate   *int64         `db:"guest_rate"  json:"guest_rate"  validate:"omitempty,gte=0"`
	Facilities  pq.StringArray `db:"facilities"  json:"facilities"  validate:"omitempty,dive,max=50"`
	Description string         `db:"description" json:"description" validate:"omitempty,max=1000"`
}

type BlockServiceRequest struct {
	IsBlocked *bool `json:"is_blocked" validate:"required"`
}

type ServiceResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Capacity    int      `json:"capacity"`
	MemberRate  int64    `json:"member_rate"`
	GuestRate   int64    `json:"guest_rate"`
	Facilities  []string `json:"facilities"`
	Description string   `json:"description"`
	IsBlocked   bool     `json:"is_blocked"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Type = model.Type
	r.Capacity = model.Capacity
	r.MemberRate = model.MemberRate
	r.GuestRate = model.GuestRate
	r.Facilities = []string(model.Facilities)
	r.Description = model.Description
	r.IsBlocked = model.IsBlocked
	r.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}
