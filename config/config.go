package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port"`
	Env                      string `envconfig:"env"`
	Host                     string `envconfig:"host"`
	BaseUrl                  string `envconfig:"base_url"`
	PostgresHost             string `envconfig:"postgres_host"`
	PostgresUser             string `envconfig:"postgres_user"`
	PostgresDB               string `envconfig:"postgres_db"`
	PostgresPort             int    `envconfig:"postgres_port"`
	PostgresPassword         string `envconfig:"postgres_password"`
	JWTSecret                string `envconfig:"jwt_secret"`
	MailgunApiKey            string `envconfig:"mg_public_api_key"`
	MgDomain                 string `envconfig:"mg_domain"`
	MgEmailFrom              string `envconfig:"email_from"`
	TwilioAccountSID         string `envconfig:"twilio_account_sid"`
	TwilioAuthToken          string `envconfig:"twilio_auth_token"`
	TwilioWhatsAppFrom       string `envconfig:"twilio_whatsapp_from"`
	AwsRegion                string `envconfig:"aws_region"`
	AwsAccessKey             string `envconfig:"aws_access_key_id"`
	AwsSecretKey             string `envconfig:"aws_secret_access_key"`
	AwsBucket                string `envconfig:"aws_bucket"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("bluegrid", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
