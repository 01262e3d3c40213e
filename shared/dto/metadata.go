package dto

import (
	"sporti/shared/constant"
	"sporti/shared/model"
	"sporti/shared/timezone"
)

// Metadata renders the audit trail with timestamps in the application zone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	*m = Metadata{
		CreatedAt: timezone.Format(src.CreatedAt, constant.DateFormat),
		CreatedBy: src.CreatedBy,
	}

	if !src.ModifiedAt.IsZero() {
		m.ModifiedAt = timezone.Format(src.ModifiedAt, constant.DateFormat)
		m.ModifiedBy = src.ModifiedBy
	}
}
