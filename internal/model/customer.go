package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FTTH customer subscription states.
const (
	CustomerStatusActive    = "active"
	CustomerStatusSuspended = "suspended"
)

// Customer is an FTTH subscriber billed monthly for a fiber package.
type Customer struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Email       string          `gorm:"type:varchar(255);not null" json:"email"`
	Address     string          `gorm:"type:text" json:"address"`
	PackageName string          `gorm:"type:varchar(100);not null" json:"package_name"`
	MonthlyFee  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_fee"`
	Status      string          `gorm:"type:varchar(20);not null;default:active" json:"status"`
	SiteID      *uuid.UUID      `gorm:"type:uuid;index" json:"site_id"`
	Site        *RemoteSite     `gorm:"foreignKey:SiteID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"site,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate sets the UUID before inserting the record.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
