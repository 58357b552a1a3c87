package server

import (
	"net/http"

	apiError "github.com/bluegridhq/bluegrid/errors"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/server/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func scheduleIDParam(c *gin.Context) (uuid.UUID, *apiError.Error) {
	id, err := uuid.Parse(c.Param("scheduleID"))
	if err != nil {
		return uuid.Nil, apiError.Validation("invalid schedule id")
	}
	return id, nil
}

func (s *Server) handleCreateSchedule() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}

		var req models.CreateScheduleRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		schedule, apiErr := s.ScheduleService.CreateSchedule(actorID, &req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "schedule created", http.StatusCreated, schedule, nil)
	}
}

func (s *Server) handleListSchedules() gin.HandlerFunc {
	return func(c *gin.Context) {
		schedules, apiErr := s.ScheduleService.ListSchedules()
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, schedules, nil)
	}
}

func (s *Server) handleListActiveSchedules() gin.HandlerFunc {
	return func(c *gin.Context) {
		schedules, apiErr := s.ScheduleService.ListActiveSchedules()
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, schedules, nil)
	}
}

func (s *Server) handleOpenSchedule() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		scheduleID, apiErr := scheduleIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		schedule, svcErr := s.ScheduleService.OpenSchedule(actorID, scheduleID)
		if svcErr != nil {
			response.JSON(c, "", svcErr.Status, nil, svcErr)
			return
		}
		response.JSON(c, "water supply opened", http.StatusOK, schedule, nil)
	}
}

func (s *Server) handleCloseSchedule() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		scheduleID, apiErr := scheduleIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		schedule, svcErr := s.ScheduleService.CloseSchedule(actorID, scheduleID)
		if svcErr != nil {
			response.JSON(c, "", svcErr.Status, nil, svcErr)
			return
		}
		response.JSON(c, "water supply closed", http.StatusOK, schedule, nil)
	}
}

func (s *Server) handleInterruptSchedule() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		scheduleID, apiErr := scheduleIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		var req models.InterruptScheduleRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		schedule, svcErr := s.ScheduleService.InterruptSchedule(actorID, scheduleID, req.Reason)
		if svcErr != nil {
			response.JSON(c, "", svcErr.Status, nil, svcErr)
			return
		}
		response.JSON(c, "supply interrupted", http.StatusOK, schedule, nil)
	}
}

func (s *Server) handleDeleteSchedule() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}
		scheduleID, apiErr := scheduleIDParam(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		if svcErr := s.ScheduleService.DeleteSchedule(actorID, scheduleID); svcErr != nil {
			response.JSON(c, "", svcErr.Status, nil, svcErr)
			return
		}
		response.JSON(c, "schedule deleted", http.StatusOK, nil, nil)
	}
}
