package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mailgun/mailgun-go/v4"
)

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

// Init reads the Mailgun credentials and builds the client. Call once at boot.
func (m *Mailgun) Init() {
	if err := godotenv.Load("./.env"); err != nil {
		log.Printf("couldn't load env vars: %v", err)
	}
	domain := os.Getenv("MG_DOMAIN")
	apiKey := os.Getenv("MG_PUBLIC_API_KEY")
	m.From = os.Getenv("EMAIL_FROM")
	if m.From == "" {
		m.From = fmt.Sprintf("BlueGrid <no-reply@%s>", domain)
	}
	m.Client = mailgun.NewMailgun(domain, apiKey)
}

// SendEmail sends one HTML email and returns the provider message id.
func (m *Mailgun) SendEmail(to, subject, htmlBody string) (string, error) {
	message := m.Client.NewMessage(m.From, subject, "", to)
	message.SetHtml(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		log.Printf("mailgun send to %s failed: %v", to, err)
		return "", err
	}
	return id, nil
}

func (m *Mailgun) SendWelcomeMessage(to, name string) (string, error) {
	subject := "Welcome to BlueGrid"
	body := fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Your BlueGrid account is ready. You can now report pipe damage in your area
and follow every repair from your dashboard.</p>
<p>Thank you for helping us maintain our water infrastructure.</p>
<p>— BlueGrid Team</p>`, name)
	return m.SendEmail(to, subject, body)
}

func (m *Mailgun) SendVerificationOTP(to, name, code string) (string, error) {
	subject := "BlueGrid email verification code"
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>Your BlueGrid verification code is:</p>
<h1 style="letter-spacing: 4px;">%s</h1>
<p>The code expires in 10 minutes. If you did not request it, ignore this mail.</p>
<p>— BlueGrid Team</p>`, name, code)
	return m.SendEmail(to, subject, body)
}

func (m *Mailgun) SendResetPassword(to, resetLink string) (string, error) {
	subject := "Reset your BlueGrid password"
	body := fmt.Sprintf(`<h2>Password reset requested</h2>
<p>Click the link below to choose a new password. The link expires in one hour.</p>
<p><a href="%s">%s</a></p>
<p>If you did not request a reset, you can safely ignore this mail.</p>
<p>— BlueGrid Team</p>`, resetLink, resetLink)
	return m.SendEmail(to, subject, body)
}
