package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"institution-portal/models"
)

func newDashboardRouter(db *gorm.DB, institutionID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(db)
	r := gin.New()
	r.Use(identityFor(institutionID, models.RoleAdmin))
	dashboard := r.Group("/dashboard")
	{
		dashboard.POST("/admit-student", h.AdmitStudent)
		dashboard.PUT("/students/:id", h.EditStudent)
		dashboard.DELETE("/students/:id", h.DeleteStudent)
		dashboard.GET("/students", h.ListStudents)
		dashboard.GET("/sections", h.Sections)
	}
	return r
}

func TestAdmitAndListStudents(t *testing.T) {
	db := newTestDB(t)
	r := newDashboardRouter(db, 1)

	w := postJSON(t, r, "/dashboard/admit-student", map[string]any{
		"name": "Ali", "father_name": "Akram", "section": "A", "fee": 5000,
		"extra_fields": map[string]string{"phone": "0300-1234567"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("admit status = %d, body = %s", w.Code, w.Body.String())
	}

	w = getRequest(t, r, "/dashboard/students")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp struct {
		Data      []models.Student `json:"data"`
		TotalRows int64            `json:"totalRows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.TotalRows != 1 || len(resp.Data) != 1 {
		t.Fatalf("list = %d rows (total %d), want 1", len(resp.Data), resp.TotalRows)
	}
	got := resp.Data[0]
	if got.Name != "Ali" || got.Fee != 5000 || got.AdmittedBy != "admin@test.local" {
		t.Errorf("listed student = %+v", got)
	}
	if got.ExtraFields["phone"] != "0300-1234567" {
		t.Errorf("extra fields = %v, want phone preserved", got.ExtraFields)
	}
}

func TestListStudentsSearchAndPagination(t *testing.T) {
	db := newTestDB(t)
	r := newDashboardRouter(db, 1)

	for i := 0; i < 25; i++ {
		seedTestStudent(t, db, 1, fmt.Sprintf("Student %02d", i), 4000)
	}
	seedTestStudent(t, db, 1, "Zainab", 4000)
	seedTestStudent(t, db, 2, "Zohaib", 4000) // other institution

	w := getRequest(t, r, "/dashboard/students?page=2&pageSize=20")
	var page2 struct {
		Data       []models.Student `json:"data"`
		TotalRows  int64            `json:"totalRows"`
		TotalPages int              `json:"totalPages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page2); err != nil {
		t.Fatalf("decode page 2: %v", err)
	}
	if page2.TotalRows != 26 || page2.TotalPages != 2 || len(page2.Data) != 6 {
		t.Errorf("page 2: total=%d pages=%d rows=%d, want 26/2/6",
			page2.TotalRows, page2.TotalPages, len(page2.Data))
	}

	w = getRequest(t, r, "/dashboard/students?search=zai")
	var filtered struct {
		Data []models.Student `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &filtered); err != nil {
		t.Fatalf("decode filtered: %v", err)
	}
	if len(filtered.Data) != 1 || filtered.Data[0].Name != "Zainab" {
		t.Errorf("search=zai matched %d rows", len(filtered.Data))
	}
}

func TestEditStudent(t *testing.T) {
	db := newTestDB(t)
	studentID := seedTestStudent(t, db, 1, "Ali", 5000)
	r := newDashboardRouter(db, 1)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/dashboard/students/%d", studentID),
		jsonBody(t, map[string]any{"name": "Ali Raza", "section": "B", "fee": 5500}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("edit status = %d, body = %s", w.Code, w.Body.String())
	}

	var reloaded models.Student
	if err := db.First(&reloaded, studentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Name != "Ali Raza" || reloaded.Section != "B" || reloaded.Fee != 5500 {
		t.Errorf("after edit: %+v", reloaded)
	}
}

func TestEditStudentCrossTenant(t *testing.T) {
	db := newTestDB(t)
	otherID := seedTestStudent(t, db, 2, "Ali", 5000)
	r := newDashboardRouter(db, 1)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/dashboard/students/%d", otherID),
		jsonBody(t, map[string]any{"name": "Hijacked", "section": "A", "fee": 1}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-tenant edit status = %d, want 404", w.Code)
	}
}

func TestDeleteStudentSoft(t *testing.T) {
	db := newTestDB(t)
	studentID := seedTestStudent(t, db, 1, "Ali", 5000)
	r := newDashboardRouter(db, 1)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/dashboard/students/%d", studentID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	// Row survives for ledger history, it just leaves the lists.
	var reloaded models.Student
	if err := db.First(&reloaded, studentID).Error; err != nil {
		t.Fatalf("student row should still exist: %v", err)
	}
	if reloaded.IsActive {
		t.Error("student should be inactive after delete")
	}

	w = getRequest(t, r, "/dashboard/students")
	var resp struct {
		TotalRows int64 `json:"totalRows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.TotalRows != 0 {
		t.Errorf("list total = %d after delete, want 0", resp.TotalRows)
	}

	req = httptest.NewRequest(http.MethodDelete, "/dashboard/students/99999", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete unknown status = %d, want 404", w.Code)
	}
}

func TestSections(t *testing.T) {
	db := newTestDB(t)
	r := newDashboardRouter(db, 1)

	for _, section := range []string{"B", "A", "B", "C"} {
		s := models.Student{InstitutionID: 1, Name: "S" + section, Section: section, Fee: 1000, IsActive: true}
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := getRequest(t, r, "/dashboard/sections")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var sections []string
	if err := json.Unmarshal(w.Body.Bytes(), &sections); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"A", "B", "C"}
	if len(sections) != len(want) {
		t.Fatalf("sections = %v, want %v", sections, want)
	}
	for i := range want {
		if sections[i] != want[i] {
			t.Errorf("sections = %v, want %v", sections, want)
			break
		}
	}
}
