// institution-portal/models/migrate.go
package models

import "gorm.io/gorm"

// Migrate creates or updates every table. The unique (person_id, month)
// indexes serialize first-payment record creation: without them two
// concurrent first payments for the same person and month could both insert
// a record and double-count arrears the following month.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Institution{},
		&Student{},
		&Staff{},
		&Teacher{},
		&FeeRecord{},
		&SalaryRecord{},
		&Syllabus{},
		&Notice{},
		&Attendance{},
		&UserBio{},
		&ChatMessage{},
	); err != nil {
		return err
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_fee_records_person_month ON fee_records (person_id, month)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_salary_records_person_month ON salary_records (person_id, month)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_student_date ON attendance_records (student_id, date)`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
