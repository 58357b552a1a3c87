package main

import (
	"log"

	"github.com/bluegridhq/bluegrid/config"
	"github.com/bluegridhq/bluegrid/db"
	"github.com/bluegridhq/bluegrid/mailingservices"
	"github.com/bluegridhq/bluegrid/server"
	"github.com/bluegridhq/bluegrid/services"
	"github.com/bluegridhq/bluegrid/services/notifier"
	"github.com/bluegridhq/bluegrid/services/otp"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize Mailgun client
	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	whatsapp := mailingservices.NewTwilioWhatsApp(
		conf.TwilioAccountSID,
		conf.TwilioAuthToken,
		conf.TwilioWhatsAppFrom,
	)

	dispatcher := notifier.NewDispatcher(mailgunClient, whatsapp)

	gormDB := db.GetDB(conf)
	// Seed roles
	if err := db.SeedRoles(gormDB.DB); err != nil {
		log.Fatalf("error seeding roles: %v", err)
	}
	authRepo := db.NewAuthRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	scheduleRepo := db.NewScheduleRepo(gormDB)

	otpStore := otp.NewStore(otp.DefaultTTL)

	authService := services.NewAuthService(authRepo, reportRepo, otpStore, mailgunClient, conf)
	reportService := services.NewReportService(reportRepo, authRepo, dispatcher, conf)
	scheduleService := services.NewScheduleService(scheduleRepo, authRepo, dispatcher, conf)

	s := &server.Server{
		Mail:            mailgunClient,
		Config:          conf,
		AuthRepository:  authRepo,
		AuthService:     authService,
		ReportService:   reportService,
		ScheduleService: scheduleService,
		Notifier:        dispatcher,
	}

	s.Start()
}
