package notifier

import "fmt"

func reportSubmittedEmail(e Event) (string, string) {
	subject := "BlueGrid: your pipe damage report was received"
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>Your pipe damage report has been submitted successfully.</p>
<ul>
<li>Report ID: %s</li>
<li>Location: %s</li>
<li>Status: %s</li>
</ul>
<p>We will assign a maintenance technician soon and keep you updated on the progress.</p>
<p>— BlueGrid Team</p>`, e.Reporter.Name, e.ReportID, orUnspecified(e.LocationName), e.Status)
	return subject, body
}

func reportSubmittedWhatsApp(e Event) string {
	return fmt.Sprintf(`🔧 *BlueGrid*

Hello %s!

Your pipe damage report has been submitted successfully.

📋 *Report Details:*
• Report ID: %s
• Location: %s
• Status: %s

We will assign a maintenance technician soon and keep you updated on the progress.

Thank you for helping us maintain our water infrastructure! 💧

*BlueGrid Team*`, e.Reporter.Name, e.ReportID, orUnspecified(e.LocationName), e.Status)
}

func newReportOfficerEmail(e Event) (string, string) {
	subject := "BlueGrid: new pipe damage report"
	body := fmt.Sprintf(`<h2>New report filed</h2>
<ul>
<li>Report ID: %s</li>
<li>Reporter: %s</li>
<li>Location: %s</li>
</ul>
<p>Please review and assign a maintenance technician.</p>`,
		e.ReportID, e.Reporter.Name, orUnspecified(e.LocationName))
	return subject, body
}

func statusUpdateEmail(e Event) (string, string) {
	subject := "BlueGrid: report status update"
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>%s</p>
<ul>
<li>Report ID: %s</li>
<li>Location: %s</li>
</ul>
<p>— BlueGrid Team</p>`, e.Reporter.Name, statusLine(e), e.ReportID, orUnspecified(e.LocationName))
	return subject, body
}

func statusUpdateWhatsApp(e Event) string {
	closing := "We will keep you updated on further progress."
	if e.Status == "completed" || e.Status == "approved" {
		closing = "If you notice any issues, please submit a new report."
	}
	return fmt.Sprintf(`🔧 *BlueGrid - Status Update*

Hello %s!

📋 *Report ID:* %s
📍 *Location:* %s
🔄 *Status Update:* %s

%s

*BlueGrid Team* 💧`, e.Reporter.Name, e.ReportID, orUnspecified(e.LocationName), statusLine(e), closing)
}

func statusLine(e Event) string {
	switch e.Status {
	case "assigned":
		return fmt.Sprintf("Your report has been assigned to technician %s. They will contact you soon.", e.TechnicianName)
	case "in_progress":
		return fmt.Sprintf("Work is in progress. Technician %s is working on the repair.", e.TechnicianName)
	case "awaiting_approval":
		return fmt.Sprintf("The repair work has been completed by %s and is awaiting final approval.", e.TechnicianName)
	case "completed":
		return fmt.Sprintf("Great news! The repair work has been completed by %s.", e.TechnicianName)
	case "approved":
		return "Your report has been resolved and approved. Thank you for your patience!"
	case "rejected":
		if e.RejectionReason != "" {
			return fmt.Sprintf("The completed work was not approved: %s. The repair will be revisited.", e.RejectionReason)
		}
		return "The completed work was not approved. The repair will be revisited."
	default:
		return fmt.Sprintf("Your report status has been updated to: %s", e.Status)
	}
}

func assignmentEmail(e Event) (string, string) {
	subject := "BlueGrid: new repair assignment"
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>You have been assigned a new pipe damage report.</p>
<ul>
<li>Report ID: %s</li>
<li>Location: %s</li>
<li>Reporter: %s</li>
</ul>
<p>Please accept the assignment in your dashboard and contact the reporter if needed.</p>
<p>— BlueGrid Team</p>`, e.TechnicianName, e.ReportID, orUnspecified(e.LocationName), e.Reporter.Name)
	return subject, body
}

func assignmentWhatsApp(e Event) string {
	return fmt.Sprintf(`🔧 *BlueGrid - New Assignment*

Hello %s!

You have been assigned a new pipe damage report.

📋 *Report Details:*
• Report ID: %s
• Location: %s
• Reporter: %s

Please accept the assignment in your dashboard and contact the reporter if needed.

*BlueGrid Team* 💧`, e.TechnicianName, e.ReportID, orUnspecified(e.LocationName), e.Reporter.Name)
}

func approvalNeededOfficerEmail(e Event) (string, string) {
	subject := "BlueGrid: repair awaiting approval"
	body := fmt.Sprintf(`<h2>Repair work completed</h2>
<ul>
<li>Report ID: %s</li>
<li>Technician: %s</li>
<li>Location: %s</li>
</ul>
<p>Please review the completion notes and approve or reject the work.</p>`,
		e.ReportID, e.TechnicianName, orUnspecified(e.LocationName))
	return subject, body
}

func waterSupplyEmail(e Event) (string, string) {
	if e.Kind == EventSupplyOpened {
		subject := "BlueGrid: water supply is now open"
		body := fmt.Sprintf(`<h2>Water supply is NOW OPEN</h2>
<ul>
<li>Area: %s</li>
<li>Schedule ID: %s</li>
<li>Opened at: %s</li>
</ul>
<p>Please collect water as needed. Use water responsibly!</p>
<p>— BlueGrid Team</p>`, e.Area, e.ScheduleID, e.At)
		return subject, body
	}
	subject := "BlueGrid: water supply is now closed"
	body := fmt.Sprintf(`<h2>Water supply is NOW CLOSED</h2>
<ul>
<li>Area: %s</li>
<li>Schedule ID: %s</li>
<li>Closed at: %s</li>
</ul>
<p>The next schedule will be notified to you in advance.</p>
<p>— BlueGrid Team</p>`, e.Area, e.ScheduleID, e.At)
	return subject, body
}

func waterSupplyWhatsApp(e Event, to Recipient) string {
	if e.Kind == EventSupplyOpened {
		return fmt.Sprintf(`💧 *BlueGrid - Water Supply*

Hello %s!

🚰 *Water Supply is NOW OPEN*

📍 Area: %s
🆔 Schedule ID: %s
⏰ Opened at: %s

Please collect water as needed. Use water responsibly!

*BlueGrid Team*`, to.Name, e.Area, e.ScheduleID, e.At)
	}
	return fmt.Sprintf(`💧 *BlueGrid - Water Supply*

Hello %s!

🚫 *Water Supply is NOW CLOSED*

📍 Area: %s
🆔 Schedule ID: %s
⏰ Closed at: %s

The next schedule will be notified to you in advance.

*BlueGrid Team*`, to.Name, e.Area, e.ScheduleID, e.At)
}

func orUnspecified(location string) string {
	if location == "" {
		return "Location not specified"
	}
	return location
}
