// institution-portal/models/document.go
package models

import "gorm.io/gorm"

// Syllabus is a vault document: syllabus, exam paper, translation or scan.
// InstitutionRef carries the public institution reference rather than the
// row id so vault links survive re-imports.
type Syllabus struct {
	gorm.Model
	InstitutionRef string         `json:"institutionRef" gorm:"index;not null"`
	Name           string         `json:"name" gorm:"not null"`
	DocType        string         `json:"docType"`
	Content        map[string]any `json:"content" gorm:"serializer:json;type:text;not null"`
	AuthorName     string         `json:"authorName"`
}

func (Syllabus) TableName() string { return "syllabi" }

// Notice is a short announcement shown on the institution dashboard.
type Notice struct {
	gorm.Model
	InstitutionRef string `json:"institutionRef" gorm:"index;not null"`
	Title          string `json:"title" gorm:"not null"`
	Message        string `json:"message" gorm:"not null"`
	Language       string `json:"language" gorm:"default:en"`
	IsActive       bool   `json:"isActive" gorm:"default:true"`
	CreatedBy      string `json:"createdBy"`
}

func (Notice) TableName() string { return "institution_notices" }
