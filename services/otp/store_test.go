package otp

import (
	"testing"
	"time"
)

func TestConsumeHappyPath(t *testing.T) {
	store := NewStore(DefaultTTL)
	store.Put("ravi@example.com", "123456", PendingSignup{Fullname: "Ravi Kumar", Phone: "9876543210"})

	signup, err := store.Consume("ravi@example.com", "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signup.Fullname != "Ravi Kumar" {
		t.Errorf("got fullname %q, want %q", signup.Fullname, "Ravi Kumar")
	}

	// A code is single use.
	if _, err := store.Consume("ravi@example.com", "123456"); err != ErrCodeNotFound {
		t.Errorf("second consume: got %v, want ErrCodeNotFound", err)
	}
}

func TestConsumeWrongCode(t *testing.T) {
	store := NewStore(DefaultTTL)
	store.Put("ravi@example.com", "123456", PendingSignup{})

	if _, err := store.Consume("ravi@example.com", "654321"); err != ErrCodeMismatch {
		t.Fatalf("got %v, want ErrCodeMismatch", err)
	}

	// A wrong attempt must not burn the real code.
	if _, err := store.Consume("ravi@example.com", "123456"); err != nil {
		t.Errorf("retry with correct code: unexpected error %v", err)
	}
}

func TestConsumeExpired(t *testing.T) {
	store := NewStore(10 * time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	store.Put("ravi@example.com", "123456", PendingSignup{})

	now = now.Add(11 * time.Minute)
	if _, err := store.Consume("ravi@example.com", "123456"); err != ErrCodeExpired {
		t.Fatalf("got %v, want ErrCodeExpired", err)
	}

	// Expiry removes the entry entirely.
	if _, err := store.Consume("ravi@example.com", "123456"); err != ErrCodeNotFound {
		t.Errorf("after expiry: got %v, want ErrCodeNotFound", err)
	}
}

func TestConsumeUnknownEmail(t *testing.T) {
	store := NewStore(DefaultTTL)
	if _, err := store.Consume("nobody@example.com", "123456"); err != ErrCodeNotFound {
		t.Fatalf("got %v, want ErrCodeNotFound", err)
	}
}

func TestPutReplacesPendingCode(t *testing.T) {
	store := NewStore(DefaultTTL)
	store.Put("ravi@example.com", "111111", PendingSignup{})
	store.Put("ravi@example.com", "222222", PendingSignup{})

	if _, err := store.Consume("ravi@example.com", "111111"); err != ErrCodeMismatch {
		t.Errorf("old code: got %v, want ErrCodeMismatch", err)
	}
	if _, err := store.Consume("ravi@example.com", "222222"); err != nil {
		t.Errorf("new code: unexpected error %v", err)
	}
}

func TestSweepDropsExpiredOnly(t *testing.T) {
	store := NewStore(10 * time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	store.Put("old@example.com", "111111", PendingSignup{})
	now = now.Add(9 * time.Minute)
	store.Put("fresh@example.com", "222222", PendingSignup{})
	now = now.Add(2 * time.Minute)

	store.Sweep()

	if _, err := store.Consume("old@example.com", "111111"); err != ErrCodeNotFound {
		t.Errorf("swept entry: got %v, want ErrCodeNotFound", err)
	}
	if _, err := store.Consume("fresh@example.com", "222222"); err != nil {
		t.Errorf("live entry: unexpected error %v", err)
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("got code %q, want 6 digits", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("got non-digit in code %q", code)
			}
		}
	}
}
