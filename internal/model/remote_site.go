package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Remote site types served by the operator.
const (
	SiteTypeAlfamart = "Alfamart"
	SiteTypeLawson   = "Lawson"
)

// RemoteSite is an Alfamart/Lawson location connected to the network,
// plotted on the dashboard map with its connection count.
type RemoteSite struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	SiteType         string    `gorm:"type:varchar(20);not null" json:"site_type"` // Alfamart, Lawson
	Latitude         float64   `gorm:"not null" json:"latitude"`
	Longitude        float64   `gorm:"not null" json:"longitude"`
	Region           string    `gorm:"type:varchar(100);not null" json:"region"`
	City             string    `gorm:"type:varchar(100);not null" json:"city"`
	TotalConnections int       `gorm:"not null;default:0" json:"total_connections"`
	Active           bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate sets the UUID before inserting the record.
func (s *RemoteSite) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
