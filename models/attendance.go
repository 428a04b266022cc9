// institution-portal/models/attendance.go
package models

import "gorm.io/gorm"

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
)

// Attendance holds one student's status for one calendar day. Marking the
// same day twice overwrites the status instead of adding a second row.
type Attendance struct {
	gorm.Model
	InstitutionID uint   `json:"institutionId" gorm:"index;not null"`
	StudentID     uint   `json:"studentId" gorm:"not null"`
	Date          string `json:"date" gorm:"size:10;not null"` // YYYY-MM-DD
	Status        string `json:"status" gorm:"size:10;not null"`
	MarkedBy      string `json:"markedBy"`
}

func (Attendance) TableName() string { return "attendance_records" }
