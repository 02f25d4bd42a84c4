package models

import "gorm.io/gorm"

// Sponsor is shown on the dashboard and the public sponsors page.
type Sponsor struct {
	gorm.Model
	Name string `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Tier string `gorm:"size:50;not null" json:"tier"` // Gold, Silver, Bronze
	Link string `gorm:"size:255" json:"link"`
}

// LiveUpdate is an admin-posted update shown on dashboards.
type LiveUpdate struct {
	gorm.Model
	Text string `gorm:"size:255;not null" json:"text"`
}

// Notification is an admin-posted notice shown on dashboards.
type Notification struct {
	gorm.Model
	Text string `gorm:"size:255;not null" json:"text"`
}
