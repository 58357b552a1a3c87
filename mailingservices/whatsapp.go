package mailingservices

import (
	"errors"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioWhatsApp sends WhatsApp messages through the Twilio messaging API.
type TwilioWhatsApp struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioWhatsApp(accountSID, authToken, from string) *TwilioWhatsApp {
	if from == "" {
		from = "whatsapp:+14155238886"
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioWhatsApp{client: client, from: from}
}

// SendWhatsApp delivers one message and returns the Twilio message SID.
func (t *TwilioWhatsApp) SendWhatsApp(to, body string) (string, error) {
	if to == "" || body == "" {
		return "", errors.New("phone number and message are required")
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(FormatWhatsAppNumber(to))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("twilio whatsapp send to %s failed: %v", to, err)
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// FormatWhatsAppNumber normalizes a local phone number into Twilio's
// whatsapp:+<country><number> form, assuming India (+91) when no country
// code is present.
func FormatWhatsAppNumber(phone string) string {
	var digits strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	cleaned := digits.String()

	switch {
	case len(cleaned) == 10:
		cleaned = "91" + cleaned
	case strings.HasPrefix(cleaned, "0"):
		cleaned = "91" + cleaned[1:]
	}
	return "whatsapp:+" + cleaned
}
