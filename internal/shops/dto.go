package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
)

// ShopDTO is the transport shape for a shop.
type ShopDTO struct {
	ID          uuid.UUID        `json:"id"`
	VendorID    uuid.UUID        `json:"vendor_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Phone       string           `json:"phone"`
	Email       string           `json:"email"`
	Address     string           `json:"address"`
	Status      enums.ShopStatus `json:"status"`
	IsActive    bool             `json:"is_active"`
	IsApproved  bool             `json:"is_approved"`
	AdminNotes  *string          `json:"admin_notes,omitempty"`
	AppliedAt   time.Time        `json:"applied_at"`
	ApprovedAt  *time.Time       `json:"approved_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ApplyShopInput captures a vendor's shop application.
type ApplyShopInput struct {
	Name        string
	Description string
	Phone       string
	Email       string
	Address     string
}

// UpdateShopInput captures the shop fields a vendor may edit.
type UpdateShopInput struct {
	Name        *string
	Description *string
	Phone       *string
	Email       *string
	Address     *string
}

// ReviewShopInput carries an admin review decision.
type ReviewShopInput struct {
	Status     enums.ShopStatus
	AdminNotes *string
}

// FromModel maps a shop row to its transport shape.
func FromModel(s *models.Shop) *ShopDTO {
	if s == nil {
		return nil
	}

	return &ShopDTO{
		ID:          s.ID,
		VendorID:    s.VendorID,
		Name:        s.Name,
		Description: s.Description,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		Status:      s.Status,
		IsActive:    s.IsActive,
		IsApproved:  s.IsApproved(),
		AdminNotes:  s.AdminNotes,
		AppliedAt:   s.AppliedAt,
		ApprovedAt:  s.ApprovedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// PublicFromModel maps a shop row for unauthenticated consumers, withholding
// review metadata.
func PublicFromModel(s *models.Shop) *ShopDTO {
	dto := FromModel(s)
	if dto == nil {
		return nil
	}
	dto.AdminNotes = nil
	return dto
}
