package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"institution-portal/models"
)

func newAttendanceRouter(db *gorm.DB, institutionID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAttendanceHandler(db)
	r := gin.New()
	r.Use(identityFor(institutionID, models.RoleTeacher))
	attendance := r.Group("/attendance")
	{
		attendance.POST("/mark", h.Mark)
		attendance.GET("", h.ListByDate)
		attendance.GET("/students/:id", h.StudentHistory)
	}
	return r
}

func TestMarkAttendanceUpserts(t *testing.T) {
	db := newTestDB(t)
	studentID := seedTestStudent(t, db, 1, "Ali", 5000)
	r := newAttendanceRouter(db, 1)

	w := postJSON(t, r, "/attendance/mark", map[string]any{
		"student_id": studentID, "date": "2025-03-10", "status": models.AttendanceAbsent,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("mark status = %d, body = %s", w.Code, w.Body.String())
	}

	// Re-marking the same day corrects the status instead of duplicating.
	w = postJSON(t, r, "/attendance/mark", map[string]any{
		"student_id": studentID, "date": "2025-03-10", "status": models.AttendancePresent,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("re-mark status = %d, body = %s", w.Code, w.Body.String())
	}

	var records []models.Attendance
	if err := db.Where("student_id = ?", studentID).Find(&records).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("record count = %d, want 1", len(records))
	}
	if records[0].Status != models.AttendancePresent {
		t.Errorf("status = %q, want %q after correction", records[0].Status, models.AttendancePresent)
	}
	if records[0].MarkedBy != "admin@test.local" {
		t.Errorf("markedBy = %q", records[0].MarkedBy)
	}
}

func TestMarkAttendanceValidation(t *testing.T) {
	db := newTestDB(t)
	studentID := seedTestStudent(t, db, 1, "Ali", 5000)
	otherID := seedTestStudent(t, db, 2, "Bilal", 5000)
	r := newAttendanceRouter(db, 1)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bad date", map[string]any{"student_id": studentID, "date": "10-03-2025", "status": "present"}, http.StatusBadRequest},
		{"bad status", map[string]any{"student_id": studentID, "date": "2025-03-10", "status": "sick"}, http.StatusBadRequest},
		{"cross tenant", map[string]any{"student_id": otherID, "date": "2025-03-10", "status": "present"}, http.StatusNotFound},
		{"unknown student", map[string]any{"student_id": 9999, "date": "2025-03-10", "status": "present"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(t, r, "/attendance/mark", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestListByDateAndHistory(t *testing.T) {
	db := newTestDB(t)
	aliID := seedTestStudent(t, db, 1, "Ali", 5000)
	zaraID := seedTestStudent(t, db, 1, "Zara", 5000)
	r := newAttendanceRouter(db, 1)

	marks := []struct {
		student uint
		date    string
		status  string
	}{
		{aliID, "2025-03-10", models.AttendancePresent},
		{zaraID, "2025-03-10", models.AttendanceLeave},
		{aliID, "2025-03-11", models.AttendanceAbsent},
	}
	for _, m := range marks {
		if w := postJSON(t, r, "/attendance/mark", map[string]any{
			"student_id": m.student, "date": m.date, "status": m.status,
		}); w.Code != http.StatusOK {
			t.Fatalf("mark %v status = %d", m, w.Code)
		}
	}

	w := getRequest(t, r, "/attendance?date=2025-03-10")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var day struct {
		Count   int                 `json:"count"`
		Records []models.Attendance `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &day); err != nil {
		t.Fatalf("decode day: %v", err)
	}
	if day.Count != 2 {
		t.Errorf("day count = %d, want 2", day.Count)
	}

	w = getRequest(t, r, fmt.Sprintf("/attendance/students/%d", aliID))
	var history struct {
		Count   int                 `json:"count"`
		Records []models.Attendance `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if history.Count != 2 {
		t.Fatalf("history count = %d, want 2", history.Count)
	}
	if history.Records[0].Date != "2025-03-11" {
		t.Errorf("history order starts at %q, want newest first", history.Records[0].Date)
	}

	if w := getRequest(t, r, "/attendance?date=bad"); w.Code != http.StatusBadRequest {
		t.Errorf("bad date list status = %d, want 400", w.Code)
	}
}
