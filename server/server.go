package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluegridhq/bluegrid/config"
	"github.com/bluegridhq/bluegrid/db"
	"github.com/bluegridhq/bluegrid/mailingservices"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/services"
	"github.com/bluegridhq/bluegrid/services/notifier"
	"github.com/gin-gonic/gin"
)

type Server struct {
	Config          *config.Config
	AuthRepository  db.AuthRepository
	AuthService     services.AuthService
	ReportService   services.ReportService
	ScheduleService services.ScheduleService
	Mail            *mailingservices.Mailgun
	Notifier        *notifier.Dispatcher
}

// Start serves the API until an interrupt, then drains in-flight requests
// and queued notifications.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	if s.Notifier != nil {
		s.Notifier.Close()
	}
	log.Println("server exiting")
}

// decode binds a JSON body and trims tagged string fields in place.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return err
	}
	return models.ValidateWhiteSpaces(v)
}
