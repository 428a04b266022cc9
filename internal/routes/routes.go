// institution-portal/internal/routes/routes.go
package routes

import (
	"institution-portal/internal/handlers"
	"institution-portal/internal/middleware"
	"institution-portal/models"

	"github.com/gin-gonic/gin"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Auth        *handlers.AuthHandler
	Institution *handlers.InstitutionHandler
	Dashboard   *handlers.DashboardHandler
	Staff       *handlers.StaffHandler
	Pay         *handlers.PayHandler
	Vault       *handlers.VaultHandler
	Attendance  *handlers.AttendanceHandler
	Profile     *handlers.ProfileHandler
	Chat        *handlers.ChatHub
	AuthMW      gin.HandlerFunc
}

// Register wires all public and authenticated routes onto the engine.
func Register(r *gin.Engine, d Deps) {
	// --- AUTH (public) ---
	auth := r.Group("/auth")
	{
		auth.POST("/signup", d.Auth.Signup)
		auth.POST("/verify-action", d.Auth.VerifyAction)
		auth.POST("/login", d.Auth.Login)
		auth.POST("/forgot-password", d.Auth.ForgotPassword)
	}

	api := r.Group("/")
	api.Use(d.AuthMW)
	{
		// --- INSTITUTION ---
		institution := api.Group("/institution")
		{
			institution.POST("/update-role", d.Institution.UpdateRole)
			institution.POST("/setup-workspace", middleware.RequireRole(models.RoleAdmin, models.RoleOwner), d.Institution.SetupWorkspace)
			institution.GET("/check-ownership", d.Institution.CheckOwnership)
		}
		api.POST("/joining/join", d.Institution.Join)

		// --- DASHBOARD ---
		dashboard := api.Group("/dashboard")
		{
			dashboard.POST("/admit-student", middleware.RequireRole(models.RoleAdmin), d.Dashboard.AdmitStudent)
			dashboard.PUT("/students/:id", middleware.RequireRole(models.RoleAdmin), d.Dashboard.EditStudent)
			dashboard.DELETE("/students/:id", middleware.RequireRole(models.RoleAdmin), d.Dashboard.DeleteStudent)
			dashboard.GET("/students", d.Dashboard.ListStudents)
			dashboard.GET("/sections", d.Dashboard.Sections)

			dashboard.POST("/hire-staff", middleware.RequireRole(models.RoleAdmin), d.Staff.HireStaff)
			dashboard.GET("/staff", d.Staff.ListStaff)
			dashboard.PUT("/staff/:id", middleware.RequireRole(models.RoleAdmin), d.Staff.UpdateStaff)
			dashboard.DELETE("/staff/:id", middleware.RequireRole(models.RoleAdmin), d.Staff.DeleteStaff)

			dashboard.POST("/hire-teacher", middleware.RequireRole(models.RoleAdmin), d.Staff.HireTeacher)
			dashboard.GET("/teachers", d.Staff.ListTeachers)
			dashboard.PUT("/teachers/:id", middleware.RequireRole(models.RoleAdmin), d.Staff.UpdateTeacher)
			dashboard.DELETE("/teachers/:id", middleware.RequireRole(models.RoleAdmin), d.Staff.DeleteTeacher)
		}

		// --- PAY ---
		pay := api.Group("/pay")
		pay.Use(middleware.RequireRole(models.RoleAdmin))
		{
			pay.GET("/search", d.Pay.SearchPayRecords)
			pay.POST("/submit-payment", d.Pay.SubmitPayment)
			pay.GET("/export-records", d.Pay.ExportRecords)
		}

		// --- CENTRAL VAULT ---
		vault := api.Group("/central_vault")
		{
			vault.POST("/upload", middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), d.Vault.Upload)
			vault.GET("/documents", d.Vault.List)
			vault.PUT("/documents/:id", middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), d.Vault.Update)
			vault.POST("/documents/bulk-delete", middleware.RequireRole(models.RoleAdmin), d.Vault.BulkDelete)

			vault.POST("/notices", middleware.RequireRole(models.RoleAdmin), d.Vault.CreateNotice)
			vault.GET("/notices", d.Vault.ListNotices)
			vault.DELETE("/notices/:id", middleware.RequireRole(models.RoleAdmin), d.Vault.DeactivateNotice)
		}

		// --- ATTENDANCE ---
		attendance := api.Group("/attendance")
		{
			attendance.POST("/mark", middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), d.Attendance.Mark)
			attendance.GET("", d.Attendance.ListByDate)
			attendance.GET("/students/:id", d.Attendance.StudentHistory)
		}

		// --- PROFILE ---
		profile := api.Group("/profile")
		{
			profile.GET("", d.Profile.Get)
			profile.PUT("", d.Profile.Update)
		}

		// --- CHAT ---
		chat := api.Group("/chat")
		{
			chat.GET("/ws", d.Chat.ServeWS)
			chat.GET("/messages", d.Chat.History)
		}
	}
}
