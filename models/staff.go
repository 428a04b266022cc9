// institution-portal/models/staff.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff is a non-teaching employee. Salary is the base recurring monthly
// amount the payroll ledger owes before arrears.
type Staff struct {
	gorm.Model
	InstitutionID uint              `json:"institutionId" gorm:"index;not null"`
	Name          string            `json:"name" gorm:"not null"`
	FatherName    string            `json:"fatherName"`
	Designation   string            `json:"designation"`
	Salary        float64           `json:"salary" gorm:"type:numeric(12,2);not null"`
	ExtraFields   map[string]string `json:"extraFields" gorm:"serializer:json;type:text"`
	IsActive      bool              `json:"isActive" gorm:"default:true"`
}

func (Staff) TableName() string { return "staff" }

// Teacher is kept separate from Staff because teachers carry subject and
// scheduling data the generic staff row does not.
type Teacher struct {
	gorm.Model
	InstitutionID    uint              `json:"institutionId" gorm:"index;not null"`
	Name             string            `json:"name" gorm:"not null"`
	Phone            string            `json:"phone"`
	Salary           float64           `json:"salary" gorm:"type:numeric(12,2)"`
	SubjectExpertise string            `json:"designation"`
	JoiningDate      *time.Time        `json:"joiningDate"`
	ExtraDetails     map[string]string `json:"extraDetails" gorm:"serializer:json;type:text"`
	IsActive         bool              `json:"isActive" gorm:"default:true"`
}

func (Teacher) TableName() string { return "teachers" }
