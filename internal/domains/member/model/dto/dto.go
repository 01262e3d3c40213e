package dto

import (
	"sporti/internal/domains/member/model"
	"sporti/shared"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	gModel "sporti/shared/model"
	"sporti/shared/timezone"

	"github.com/google/uuid"
)

type CreateMemberRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=8"`
	Role        string `json:"role"        validate:"omitempty,oneof=member admin"`
	FullName    string `json:"full_name"   validate:"required,min=2,max=100"`
	Designation string `json:"designation" validate:"required,max=50"`
	Phone       string `json:"phone"       validate:"omitempty,len=10,number"`
}

func (r *CreateMemberRequest) ToModel(username, hashedPassword string) model.Member {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleMember
	}

	return model.Member{
		ID:          uuid.NewString(),
		Email:       r.Email,
		Password:    hashedPassword,
		Role:        role,
		FullName:    r.FullName,
		Designation: r.Designation,
		Phone:       r.Phone,
		Active:      true,
		Metadata:    gModel.NewMetadata(username),
	}
}

type UpdateMemberRequest struct {
	Role        *string `db:"role"        json:"role,omitempty"        validate:"omitempty,oneof=member admin"`
	FullName    *string `db:"full_name"   json:"full_name,omitempty"   validate:"omitempty,min=2,max=100"`
	Designation *string `db:"designation" json:"designation,omitempty" validate:"omitempty,max=50"`
	Phone       *string `db:"phone"       json:"phone,omitempty"       validate:"omitempty,len=10,number"`
	Active      *bool   `db:"active"      json:"active,omitempty"`
}

type MemberResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	FullName    string  `json:"full_name"`
	Designation string  `json:"designation"`
	Phone       string  `json:"phone"`
	LastLogin   *string `json:"last_login,omitempty"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *MemberResponse) FromModel(m model.Member) {
	r.ID = m.ID
	r.Email = m.Email
	r.Role = m.Role
	r.FullName = m.FullName
	r.Designation = m.Designation
	r.Phone = m.Phone
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)

	if m.LastLogin != nil {
		lastLogin := timezone.Format(*m.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}
}

type GetMembersResponse struct {
	Members   []MemberResponse `json:"members"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetMembersResponse) FromModels(models []model.Member, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Members = make([]MemberResponse, len(models))
	for i, mod := range models {
		r.Members[i].FromModel(mod)
	}
}
