package mailingservices

import "testing"

func TestFormatWhatsAppNumber(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"ten digit local number", "9876543210", "whatsapp:+919876543210"},
		{"leading zero", "09876543210", "whatsapp:+919876543210"},
		{"already has country code", "919876543210", "whatsapp:+919876543210"},
		{"plus prefix", "+919876543210", "whatsapp:+919876543210"},
		{"spaces and dashes", "98765 432-10", "whatsapp:+919876543210"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatWhatsAppNumber(tt.phone); got != tt.want {
				t.Errorf("FormatWhatsAppNumber(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}
