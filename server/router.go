package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 3})
	limitRate := limitRateForPasswordReset(store)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/signup/send-otp", limitRate, s.handleSendSignupOTP())
	apirouter.POST("/auth/signup/verify-otp", s.handleVerifySignupOTP())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/password/forgot", limitRate, s.HandleForgotPassword())
	apirouter.POST("/password/reset/:userID", s.ResetPassword())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me", s.handleEditUserProfile())

	authorized.POST("/reports", s.handleSubmitReport())
	authorized.GET("/reports", s.handleGetAllReports())
	authorized.GET("/reports/mine", s.handleGetMyReports())
	authorized.GET("/reports/assigned", s.handleGetAssignedReports())
	authorized.GET("/reports/analytics", s.handleReportAnalytics())
	authorized.GET("/reports/feedback/statistics", s.handleFeedbackStatistics())
	authorized.GET("/reports/:reportID", s.handleGetReport())
	authorized.PUT("/reports/:reportID/assign", s.handleAssignReport())
	authorized.PUT("/reports/:reportID/accept", s.handleAcceptReport())
	authorized.PUT("/reports/:reportID/progress", s.handleProgressUpdate())
	authorized.PUT("/reports/:reportID/complete", s.handleCompleteReport())
	authorized.PUT("/reports/:reportID/approve", s.handleApproveReport())
	authorized.PUT("/reports/:reportID/reject", s.handleRejectReport())
	authorized.PUT("/reports/:reportID/status", s.handleForceSetStatus())
	authorized.POST("/reports/:reportID/feedback", s.handleSubmitFeedback())

	authorized.POST("/schedules", s.handleCreateSchedule())
	authorized.GET("/schedules", s.handleListSchedules())
	authorized.GET("/schedules/active", s.handleListActiveSchedules())
	authorized.PUT("/schedules/:scheduleID/open", s.handleOpenSchedule())
	authorized.PUT("/schedules/:scheduleID/close", s.handleCloseSchedule())
	authorized.PUT("/schedules/:scheduleID/interrupt", s.handleInterruptSchedule())
	authorized.DELETE("/schedules/:scheduleID", s.handleDeleteSchedule())

	authorized.POST("/staff", s.handleCreateStaff())
	authorized.DELETE("/users/:userID", s.handleDeleteUser())
	authorized.GET("/users/residents", s.handleListResidents())
	authorized.GET("/users/technicians", s.handleListTechnicians())
}
