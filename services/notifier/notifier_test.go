package notifier

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

type sentMessage struct {
	to   string
	body string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeEmailSender) SendEmail(to, subject, htmlBody string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, body: htmlBody})
	return "id", nil
}

type fakeWhatsAppSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeWhatsAppSender) SendWhatsApp(to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return "sid", nil
}

func TestSubmittedEventNotifiesReporterAndOfficers(t *testing.T) {
	email := &fakeEmailSender{}
	wa := &fakeWhatsAppSender{}
	d := NewDispatcher(email, wa)

	d.Dispatch(Event{
		Kind:         EventReportSubmitted,
		ReportID:     "r-1",
		Status:       "pending",
		LocationName: "Ward 4 junction",
		Reporter:     Recipient{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210"},
		Officers: []Recipient{
			{Name: "Officer A", Email: "a@bluegrid.example"},
			{Name: "Officer B", Email: "b@bluegrid.example"},
		},
	})
	d.Close()

	if len(email.sent) != 3 {
		t.Fatalf("got %d emails, want 3 (reporter + 2 officers)", len(email.sent))
	}
	if email.sent[0].to != "ravi@example.com" {
		t.Errorf("first email to %q, want reporter", email.sent[0].to)
	}
	if len(wa.sent) != 1 {
		t.Fatalf("got %d whatsapp messages, want 1", len(wa.sent))
	}
	if !strings.Contains(wa.sent[0].body, "r-1") {
		t.Errorf("whatsapp body missing report id: %q", wa.sent[0].body)
	}
}

func TestAssignedEventNotifiesTechnician(t *testing.T) {
	email := &fakeEmailSender{}
	wa := &fakeWhatsAppSender{}
	d := NewDispatcher(email, wa)

	d.Dispatch(Event{
		Kind:           EventReportAssigned,
		ReportID:       "r-2",
		Status:         "assigned",
		TechnicianName: "Suresh",
		Reporter:       Recipient{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210"},
		Technician:     &Recipient{Name: "Suresh", Email: "suresh@bluegrid.example", Phone: "9123456780"},
	})
	d.Close()

	if len(email.sent) != 2 {
		t.Fatalf("got %d emails, want 2 (reporter + technician)", len(email.sent))
	}
	if len(wa.sent) != 2 {
		t.Fatalf("got %d whatsapp messages, want 2", len(wa.sent))
	}
	if !strings.Contains(wa.sent[0].body, "Suresh") {
		t.Errorf("reporter whatsapp should name the technician: %q", wa.sent[0].body)
	}
}

func TestOverrideEventIsWhatsAppOnly(t *testing.T) {
	email := &fakeEmailSender{}
	wa := &fakeWhatsAppSender{}
	d := NewDispatcher(email, wa)

	d.Dispatch(Event{
		Kind:     EventStatusOverride,
		ReportID: "r-3",
		Status:   "approved",
		Reporter: Recipient{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210"},
	})
	d.Close()

	if len(email.sent) != 0 {
		t.Errorf("override sent %d emails, want 0", len(email.sent))
	}
	if len(wa.sent) != 1 {
		t.Fatalf("got %d whatsapp messages, want 1", len(wa.sent))
	}
}

func TestSupplyOpenedNotifiesResidents(t *testing.T) {
	email := &fakeEmailSender{}
	wa := &fakeWhatsAppSender{}
	d := NewDispatcher(email, wa)

	d.Dispatch(Event{
		Kind:       EventSupplyOpened,
		ScheduleID: "s-1",
		Area:       "Ward 4",
		At:         "2026-08-31 06:00",
		Residents: []Recipient{
			{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210"},
			{Name: "Meena", Email: "meena@example.com"},
		},
	})
	d.Close()

	if len(email.sent) != 2 {
		t.Fatalf("got %d emails, want 2", len(email.sent))
	}
	// Only the resident with a phone number gets WhatsApp.
	if len(wa.sent) != 1 {
		t.Fatalf("got %d whatsapp messages, want 1", len(wa.sent))
	}
	if !strings.Contains(wa.sent[0].body, "NOW OPEN") {
		t.Errorf("whatsapp body should announce the opening: %q", wa.sent[0].body)
	}
}

func TestSenderFailuresAreSwallowed(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("smtp down")}
	wa := &fakeWhatsAppSender{err: errors.New("twilio down")}
	d := NewDispatcher(email, wa)

	// Must not panic or block even though every delivery fails.
	d.Dispatch(Event{
		Kind:     EventReportApproved,
		ReportID: "r-4",
		Status:   "approved",
		Reporter: Recipient{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210"},
	})
	d.Close()
}

func TestNilSendersAreSkipped(t *testing.T) {
	d := NewDispatcher(nil, nil)
	d.Dispatch(Event{
		Kind:     EventReportApproved,
		ReportID: "r-5",
		Status:   "approved",
		Reporter: Recipient{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210"},
	})
	d.Close()
}
