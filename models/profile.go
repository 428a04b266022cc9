// institution-portal/models/profile.go
package models

import "gorm.io/gorm"

// UserBio is the editable profile a user attaches to their account.
// CustomDetails keeps free-form entries (interests, social links).
type UserBio struct {
	gorm.Model
	UserID        uint              `json:"userId" gorm:"uniqueIndex;not null"`
	FullName      string            `json:"fullName" gorm:"size:100;not null"`
	ShortBio      string            `json:"shortBio"`
	CustomDetails map[string]string `json:"customDetails" gorm:"serializer:json;type:text"`
}

func (UserBio) TableName() string { return "user_bios" }
