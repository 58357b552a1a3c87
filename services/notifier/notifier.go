// Package notifier delivers lifecycle notifications over email and WhatsApp.
// Delivery is fire and forget: services hand an event to the dispatcher after
// the state change is committed and never learn whether it arrived. Failures
// are logged and dropped, never retried.
package notifier

import (
	"log"
)

type EmailSender interface {
	SendEmail(to, subject, htmlBody string) (string, error)
}

type WhatsAppSender interface {
	SendWhatsApp(to, body string) (string, error)
}

type EventKind string

const (
	EventReportSubmitted EventKind = "report_submitted"
	EventReportAssigned  EventKind = "report_assigned"
	EventReportAccepted  EventKind = "report_accepted"
	EventReportCompleted EventKind = "report_completed"
	EventReportApproved  EventKind = "report_approved"
	EventReportRejected  EventKind = "report_rejected"
	EventStatusOverride  EventKind = "status_override"
	EventSupplyOpened    EventKind = "supply_opened"
	EventSupplyClosed    EventKind = "supply_closed"
)

// Recipient carries the contact details resolved before dispatch; the worker
// never reads the database.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// Event is one notification-worthy occurrence with everything the templates
// need already denormalized onto it.
type Event struct {
	Kind           EventKind
	ReportID       string
	Status         string
	LocationName   string
	TechnicianName string
	RejectionReason string

	ScheduleID string
	Area       string
	At         string

	Reporter   Recipient
	Technician *Recipient
	Officers   []Recipient
	Residents  []Recipient
}

// Dispatcher owns the async boundary between transitions and delivery.
type Dispatcher struct {
	email    EmailSender
	whatsapp WhatsAppSender
	events   chan Event
	done     chan struct{}
}

const queueSize = 64

func NewDispatcher(email EmailSender, whatsapp WhatsAppSender) *Dispatcher {
	d := &Dispatcher{
		email:    email,
		whatsapp: whatsapp,
		events:   make(chan Event, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch queues an event without blocking. When the queue is full the
// event is dropped; a notification is never worth stalling a request for.
func (d *Dispatcher) Dispatch(e Event) {
	select {
	case d.events <- e:
	default:
		log.Printf("[notifier] queue full, dropping %s for report %s", e.Kind, e.ReportID)
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	close(d.events)
	<-d.done
}

func (d *Dispatcher) run() {
	for e := range d.events {
		d.deliver(e)
	}
	close(d.done)
}

func (d *Dispatcher) deliver(e Event) {
	switch e.Kind {
	case EventReportSubmitted:
		subject, body := reportSubmittedEmail(e)
		d.sendEmail(e.Reporter, subject, body)
		d.sendWhatsApp(e.Reporter, reportSubmittedWhatsApp(e))
		officerSubject, officerBody := newReportOfficerEmail(e)
		for _, officer := range e.Officers {
			d.sendEmail(officer, officerSubject, officerBody)
		}

	case EventReportAssigned:
		subject, body := statusUpdateEmail(e)
		d.sendEmail(e.Reporter, subject, body)
		d.sendWhatsApp(e.Reporter, statusUpdateWhatsApp(e))
		if e.Technician != nil {
			techSubject, techBody := assignmentEmail(e)
			d.sendEmail(*e.Technician, techSubject, techBody)
			d.sendWhatsApp(*e.Technician, assignmentWhatsApp(e))
		}

	case EventReportAccepted, EventReportApproved, EventReportRejected:
		subject, body := statusUpdateEmail(e)
		d.sendEmail(e.Reporter, subject, body)
		d.sendWhatsApp(e.Reporter, statusUpdateWhatsApp(e))

	case EventReportCompleted:
		subject, body := statusUpdateEmail(e)
		d.sendEmail(e.Reporter, subject, body)
		d.sendWhatsApp(e.Reporter, statusUpdateWhatsApp(e))
		officerSubject, officerBody := approvalNeededOfficerEmail(e)
		for _, officer := range e.Officers {
			d.sendEmail(officer, officerSubject, officerBody)
		}

	case EventStatusOverride:
		// Audited override notifies the reporter over WhatsApp only.
		d.sendWhatsApp(e.Reporter, statusUpdateWhatsApp(e))

	case EventSupplyOpened, EventSupplyClosed:
		subject, body := waterSupplyEmail(e)
		for _, resident := range e.Residents {
			d.sendEmail(resident, subject, body)
			d.sendWhatsApp(resident, waterSupplyWhatsApp(e, resident))
		}

	default:
		log.Printf("[notifier] unknown event kind %q", e.Kind)
	}
}

func (d *Dispatcher) sendEmail(to Recipient, subject, body string) {
	if d.email == nil || to.Email == "" {
		return
	}
	if _, err := d.email.SendEmail(to.Email, subject, body); err != nil {
		log.Printf("[notifier] email to %s failed: %v", to.Email, err)
	}
}

func (d *Dispatcher) sendWhatsApp(to Recipient, body string) {
	if d.whatsapp == nil || to.Phone == "" {
		return
	}
	if _, err := d.whatsapp.SendWhatsApp(to.Phone, body); err != nil {
		log.Printf("[notifier] whatsapp to %s failed: %v", to.Phone, err)
	}
}
