// institution-portal/models/student.go
package models

import "gorm.io/gorm"

// Student is an admitted pupil. Fee is the base recurring monthly charge the
// ledger bills before arrears. ExtraFields stores ad-hoc admission data such
// as phone or address without schema churn.
type Student struct {
	gorm.Model
	InstitutionID uint              `json:"institutionId" gorm:"index;not null"`
	Name          string            `json:"name" gorm:"not null"`
	FatherName    string            `json:"fatherName"`
	Section       string            `json:"section"`
	Fee           float64           `json:"fee" gorm:"type:numeric(12,2);not null"`
	AdmittedBy    string            `json:"admittedBy" gorm:"index"`
	ExtraFields   map[string]string `json:"extraFields" gorm:"serializer:json;type:text"`
	IsActive      bool              `json:"isActive" gorm:"default:true"`
}

func (Student) TableName() string { return "students" }
