package models

import (
	"time"

	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
)

// Shop represents a vendor's storefront application and profile.
type Shop struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    uuid.UUID        `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description;not null"`
	Phone       string           `gorm:"column:phone;not null"`
	Email       string           `gorm:"column:email;not null"`
	Address     string           `gorm:"column:address;not null"`
	Status      enums.ShopStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	AdminNotes  *string          `gorm:"column:admin_notes"`
	AppliedAt   time.Time        `gorm:"column:applied_at;not null"`
	ApprovedAt  *time.Time       `gorm:"column:approved_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// IsApproved reports whether the shop is visible and orderable. Both the
// review status and the active flag gate it.
func (s Shop) IsApproved() bool {
	return s.Status == enums.ShopStatusApproved && s.IsActive
}
