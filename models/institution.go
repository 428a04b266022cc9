// institution-portal/models/institution.go
package models

import "gorm.io/gorm"

// Institution kinds. The kind-specific columns below are flattened into one
// row instead of a table-per-kind hierarchy.
const (
	KindSchool  = "school"
	KindAcademy = "academy"
	KindCollege = "college"
)

// Institution is the tenant boundary: every student, staff member, ledger
// record and document hangs off one institution and queries never cross it.
// Ref is the public 8-character search id shared with joiners; JoinKey is the
// secret half of the join handshake.
type Institution struct {
	gorm.Model
	OwnerID  uint   `json:"ownerId" gorm:"index;not null"`
	Ref      string `json:"instRef" gorm:"column:inst_ref;unique;index;not null"`
	JoinKey  string `json:"-" gorm:"not null"`
	Kind     string `json:"type" gorm:"column:type;size:50;not null"`
	Name     string `json:"name" gorm:"not null"`
	Address  string `json:"address"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive" gorm:"default:true"`

	// school
	PrincipalName string `json:"principalName,omitempty"`
	Campus        string `json:"campus,omitempty"`
	Website       string `json:"website,omitempty"`

	// academy
	EduType    string `json:"eduType,omitempty"`
	CampusName string `json:"campusName,omitempty"`
	Contact    string `json:"contact,omitempty"`

	// college
	DeanName   string `json:"deanName,omitempty"`
	Code       string `json:"code,omitempty"`
	University string `json:"university,omitempty"`
}

func (Institution) TableName() string { return "institutions" }
