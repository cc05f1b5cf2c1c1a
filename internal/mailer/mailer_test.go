package mailer

import "testing"

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{1299, "$12.99"},
		{100000, "$1000.00"},
		{-250, "-$2.50"},
	}
	for _, tc := range cases {
		if got := formatCents(tc.cents); got != tc.want {
			t.Errorf("formatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestUnconfiguredMailerSkipsSending(t *testing.T) {
	m := New(Config{}, nil)
	if m.Enabled() {
		t.Fatal("mailer with no host must report disabled")
	}
	if err := m.SendLowStockAlert(nil, "admin@example.com"); err != nil {
		t.Fatalf("disabled mailer returned error: %v", err)
	}
}
