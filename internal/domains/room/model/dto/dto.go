package dto

import (
	"mime/multipart"

	"sporti/internal/domains/room/model"
	"sporti/shared"
	gDto "sporti/shared/dto"
	gModel "sporti/shared/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoomRequest struct {
	Location    string                `json:"location"    validate:"required,max=50"`
	Category    string                `json:"category"    validate:"required,max=50"`
	Floor       int                   `json:"floor"       validate:"gte=0"`
	RoomNumber  string                `json:"room_number" validate:"required,max=20"`
	MemberRate  int64                 `json:"member_rate" validate:"gte=0"`
	GuestRate   int64                 `json:"guest_rate"  validate:"gte=0"`
	Facilities  []string              `json:"facilities"  validate:"omitempty,dive,max=50"`
	Description string                `json:"description" validate:"omitempty,max=1000"`
	Image       *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
	IsBlocked   *bool                 `json:"is_blocked"  validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	blocked := false
	if c.IsBlocked != nil {
		blocked = *c.IsBlocked
	}

	return model.Room{
		ID:          uuid.NewString(),
		Location:    c.Location,
		Category:    c.Category,
		Floor:       c.Floor,
		RoomNumber:  c.RoomNumber,
		MemberRate:  c.MemberRate,
		GuestRate:   c.GuestRate,
		Facilities:  pq.StringArray(c.Facilities),
		Description: c.Description,
		Image:       imageURL,
		IsBlocked:   blocked,
		Metadata:    gModel.NewMetadata(user),
	}
}

type UpdateRoomRequest struct {
	Category    string                `db:"category"    json:"category"    validate:"omitempty,max=50"`
	Floor       *int                  `db:"floor"       json:"floor"       validate:"omitempty,gte=0"`
	RoomNumber  string                `db:"room_number" json:"room_number" validate:"omitempty,max=20"`
	MemberRate  *int64                `db:"member_rate" json:"member_rate" validate:"omitempty,gte=0"`
	GuestRate   *int64                `db:"guest_rate"  json:"guest_rate"  validate:"omitempty,gte=0"`
	Facilities  pq.StringArray        `db:"facilities"  json:"facilities"  validate:"omitempty,dive,max=50"`
	Description string                `db:"description" json:"description" validate:"omitempty,max=1000"`
	Image       *multipart.FileHeader `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
}

type BlockRoomRequest struct {
	IsBlocked *bool `json:"is_blocked" validate:"required"`
}

type RoomResponse struct {
	ID          string   `json:"id"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Floor       int      `json:"floor"`
	RoomNumber  string   `json:"room_number"`
	MemberRate  int64    `json:"member_rate"`
	GuestRate   int64    `json:"guest_rate"`
	Facilities  []string `json:"facilities"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	IsBlocked   bool     `json:"is_blocked"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Location = model.Location
	r.Category = model.Category
	r.Floor = model.Floor
	r.RoomNumber = model.RoomNumber
	r.MemberRate = model.MemberRate
	r.GuestRate = model.GuestRate
	r.Facilities = []string(model.Facilities)
	r.Description = model.Description
	r.Image = model.Image
	r.IsBlocked = model.IsBlocked
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
