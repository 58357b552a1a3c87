package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	apiError "github.com/bluegridhq/bluegrid/errors"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/server/response"
	"github.com/bluegridhq/bluegrid/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// reportIDParam parses the :reportID path segment.
func reportIDParam(c *gin.Context) (uuid.UUID, *apiError.Error) {
	id, err := uuid.Parse(c.Param("reportID"))
	if err != nil {
		return uuid.Nil, apiError.Validation("invalid report id")
	}
	return id, nil
}

func (s *Server) handleSubmitReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}

		if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
			response.JSON(c, "unable to parse form", http.StatusBadRequest, nil, err)
			return
		}

		photoURL := ""
		file, fileHeader, err := c.Request.FormFile("photo")
		if err == nil {
			if err := validateFile(fileHeader); err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, err)
				return
			}
			client, err := createS3Client(s.Config)
			if err != nil {
				log.Printf("S3 client error: %v", err)
				response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
				return
			}
			key := fmt.Sprintf("reports/%d_%d_%s", actorID, time.Now().Unix(), fileHeader.Filename)
			photoURL, err = uploadFileToS3(client, file, s.Config.AwsBucket, s.Config.AwsRegion, key)
			if err != nil {
				log.Printf("S3 upload error: %v", err)
				response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
				return
			}
		}

		lat, _ := strconv.ParseFloat(c.PostForm("latitude"), 64)
		lng, _ := strconv.ParseFloat(c.PostForm("longitude"), 64)
		req := models.CreateReportRequest{
			FullName:     c.PostForm("full_name"),
			Phone:        c.PostForm("phone"),
			Email:        c.PostForm("email"),
			LocationName: c.PostForm("location_name"),
			Latitude:     lat,
			Longitude:    lng,
			Description:  c.PostForm("description"),
		}
		if err := models.ValidateWhiteSpaces(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		report, apiErr := s.ReportService.SubmitReport(actorID, &req, photoURL)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "report submitted", http.StatusCreated, report, nil)
	}
}

func (s *Server) handleGetReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		reportID, apiErr := reportIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		report, apiErr := s.ReportService.GetReport(actorID, reportID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, report, nil)
	}
}

func (s *Server) handleGetAllReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		reports, apiErr := s.ReportService.ListAllReports(actorID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetMyReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		reports, apiErr := s.ReportService.ListMyReports(actorID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetAssignedReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		reports, apiErr := s.ReportService.ListAssignedReports(actorID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleAssignReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AssignReportRequest
		s.transition(c, services.OpAssign, &req, func() *services.TransitionInput {
			return &services.TransitionInput{TechnicianID: req.TechnicianID}
		}, "report assigned")
	}
}

func (s *Server) handleAcceptReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.transition(c, services.OpAccept, nil, func() *services.TransitionInput {
			return &services.TransitionInput{}
		}, "report accepted")
	}
}

func (s *Server) handleProgressUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProgressUpdateRequest
		s.transition(c, services.OpProgress, &req, func() *services.TransitionInput {
			return &services.TransitionInput{Notes: req.Notes}
		}, "progress recorded")
	}
}

func (s *Server) handleCompleteReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		reportID, apiErr := reportIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
			response.JSON(c, "unable to parse form", http.StatusBadRequest, nil, err)
			return
		}

		photoURL := ""
		file, fileHeader, err := c.Request.FormFile("photo")
		if err == nil {
			if err := validateFile(fileHeader); err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, err)
				return
			}
			client, err := createS3Client(s.Config)
			if err != nil {
				log.Printf("S3 client error: %v", err)
				response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
				return
			}
			key := fmt.Sprintf("completions/%s_%d_%s", reportID, time.Now().Unix(), fileHeader.Filename)
			photoURL, err = uploadFileToS3(client, file, s.Config.AwsBucket, s.Config.AwsRegion, key)
			if err != nil {
				log.Printf("S3 upload error: %v", err)
				response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
				return
			}
		}

		in := &services.TransitionInput{
			Notes:              c.PostForm("completion_notes"),
			CompletionPhotoURL: photoURL,
		}
		report, svcErr := s.ReportService.Transition(actorID, reportID, services.OpComplete, in)
		if svcErr != nil {
			response.JSON(c, "", svcErr.Status, nil, svcErr)
			return
		}
		response.JSON(c, "report marked complete, pending approval", http.StatusOK, report, nil)
	}
}

func (s *Server) handleApproveReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.transition(c, services.OpApprove, nil, func() *services.TransitionInput {
			return &services.TransitionInput{}
		}, "report approved")
	}
}

func (s *Server) handleRejectReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RejectReportRequest
		s.transition(c, services.OpReject, &req, func() *services.TransitionInput {
			return &services.TransitionInput{Reason: req.Reason}
		}, "report rejected")
	}
}

// transition is the shared body of the single-step lifecycle handlers: parse
// the id, optionally bind a request body, call the service, render the result.
func (s *Server) transition(c *gin.Context, op services.ReportOp, body interface{}, input func() *services.TransitionInput, message string) {
	actorID, ok := currentUserID(c)
	if !ok {
		response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
		return
	}
	reportID, apiErr := reportIDParam(c)
	if apiErr != nil {
		response.JSON(c, "", apiErr.Status, nil, apiErr)
		return
	}
	if body != nil {
		if err := decode(c, body); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
	}

	report, svcErr := s.ReportService.Transition(actorID, reportID, op, input())
	if svcErr != nil {
		response.JSON(c, "", svcErr.Status, nil, svcErr)
		return
	}
	response.JSON(c, message, http.StatusOK, report, nil)
}

func (s *Server) handleForceSetStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		reportID, apiErr := reportIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		var req models.StatusOverrideRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		report, svcErr := s.ReportService.ForceSetStatus(actorID, reportID, models.ReportStatus(req.Status))
		if svcErr != nil {
			response.JSON(c, "", svcErr.Status, nil, svcErr)
			return
		}
		response.JSON(c, "report status updated", http.StatusOK, report, nil)
	}
}

func (s *Server) handleSubmitFeedback() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		reportID, apiErr := reportIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		var req models.FeedbackRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		report, svcErr := s.ReportService.SubmitFeedback(actorID, reportID, &req)
		if svcErr != nil {
			response.JSON(c, "", svcErr.Status, nil, svcErr)
			return
		}
		response.JSON(c, "feedback recorded", http.StatusCreated, report, nil)
	}
}

func (s *Server) handleReportAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		analytics, apiErr := s.ReportService.GetAnalytics(actorID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, analytics, nil)
	}
}

func (s *Server) handleFeedbackStatistics() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		stats, apiErr := s.ReportService.GetFeedbackStatistics(actorID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, stats, nil)
	}
}
