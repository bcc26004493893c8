package Routes

import (
	"MediDesk/Controllers"
	"MediDesk/Middleware"
	"MediDesk/SSE"
	"MediDesk/Whatsapp"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func ConfigRoutes(router *gin.Engine) {
	// Gzip Compression
	router.Use(gzip.Gzip(gzip.BestSpeed))

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/login", Controllers.Login)
		public.POST("/register", Controllers.Register)
		public.POST("/register/Hospital", Controllers.RegisterHospital)
		public.POST("/SaveFcmToken", Controllers.SaveFCM)
		public.POST("/GetPatientIdByPhone", Controllers.GetPatientIdByPhone)
		public.GET("/GetDoctorsTrimmed", Controllers.GetDoctorsTrimmed)
	}

	// Authorized routes
	authorized := router.Group("/api/protected")
	authorized.Use(Middleware.JwtAuthMiddleware())
	authorized.Use(Middleware.SetHospitalScope())
	{

		// User-related routes
		authorized.GET("/user", Controllers.CurrentUser)
		authorized.POST("/DeleteUser", Middleware.PermissionCheckAdmin(), Controllers.DeleteUser)

		// Patient-related routes
		authorized.GET("/FetchPatients", Controllers.FetchPatients)
		authorized.POST("/FetchPatientByUHID", Controllers.FetchPatientByUHID)
		authorized.POST("/CreatePatient", Controllers.CreatePatient)
		authorized.POST("/UpdatePatient", Controllers.UpdatePatient)
		authorized.POST("/DeletePatient", Middleware.PermissionCheckAdmin(), Controllers.DeletePatient)
		authorized.POST("/FetchPatientFilesURLs", Controllers.FetchPatientFilesURLs)
		authorized.POST("/UploadPatientRecord", Controllers.UploadPatientRecord)
		authorized.POST("/DeletePatientRecord", Controllers.DeletePatientRecord)

		// Doctor-related routes
		authorized.POST("/RegisterDoctor", Middleware.PermissionCheckAdmin(), Controllers.RegisterDoctor)
		authorized.POST("/DeleteDoctor", Middleware.PermissionCheckAdmin(), Controllers.DeleteDoctor)
		authorized.GET("/GetDoctors", Controllers.GetDoctors)

		// OPD-related routes
		authorized.POST("/RegisterOPDVisit", Controllers.RegisterOPDVisit)
		authorized.POST("/FetchOPDVisits", Controllers.FetchOPDVisits)
		authorized.POST("/MarkOPDAsPaid", Controllers.MarkOPDAsPaid)
		authorized.POST("/UnmarkOPDAsPaid", Controllers.UnmarkOPDAsPaid)
		authorized.POST("/SavePrescription", Controllers.SavePrescription)
		authorized.POST("/FetchPrescriptions", Controllers.FetchPrescriptions)
		authorized.POST("/ExtractPrescription", Controllers.ExtractPrescription)

		// IPD-related routes
		authorized.POST("/AdmitPatient", Controllers.AdmitPatient)
		authorized.POST("/TransferBed", Controllers.TransferBed)
		authorized.POST("/AddChargeEntry", Controllers.AddChargeEntry)
		authorized.POST("/RecordPayment", Controllers.RecordPayment)
		authorized.POST("/DischargePatient", Controllers.DischargePatient)
		authorized.POST("/FetchAdmissions", Controllers.FetchAdmissions)
		authorized.POST("/FetchAdmissionDetails", Controllers.FetchAdmissionDetails)

		// Ward and bed routes
		authorized.POST("/AddWard", Controllers.AddWard)
		authorized.GET("/FetchWards", Controllers.FetchWards)
		authorized.POST("/AddBed", Controllers.AddBed)
		authorized.POST("/EditBed", Controllers.EditBed)
		authorized.POST("/DeleteBed", Middleware.PermissionCheckAdmin(), Controllers.DeleteBed)
		authorized.POST("/FetchAvailableBeds", Controllers.FetchAvailableBeds)

		// Dashboard routes
		authorized.GET("/FetchDashboardStats", Controllers.FetchDashboardStats)
		authorized.POST("/FetchRevenueSeries", Controllers.FetchRevenueSeries)

		// WhatsApp-related routes
		authorized.GET("/CheckWhatsAppLogin", Whatsapp.CheckLogin)
		authorized.GET("/GetWhatsAppQRCode", Whatsapp.GetQRCode)

		// SSE (Server-Sent Events) route
		authorized.GET("/RequestSSE", SSE.RequestSSE)

		// Export-related routes
		authorized.POST("/ExportRevenueSheet", Controllers.ExportRevenueSheet)
		authorized.POST("/ExportOPDRegister", Controllers.ExportOPDRegister)
	}

	// Static file serving
	authorized.Static("/PatientRecords", "./PatientRecords")
	router.Static("/Web", "./Static")
}
