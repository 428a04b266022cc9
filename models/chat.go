// institution-portal/models/chat.go
package models

import "gorm.io/gorm"

// ChatMessage is one message in an institution's shared room. Messages are
// partitioned by institution exactly like every other tenant resource.
type ChatMessage struct {
	gorm.Model
	InstitutionID uint   `json:"institutionId" gorm:"index;not null"`
	SenderID      uint   `json:"senderId" gorm:"not null"`
	SenderName    string `json:"senderName"`
	Type          string `json:"type" gorm:"default:text"`
	Content       string `json:"content" gorm:"not null"`
}

func (ChatMessage) TableName() string { return "messages" }
