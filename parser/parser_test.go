package parser

import (
	"errors"
	"testing"

	"github.com/use-agent/emotetcheck/models"
)

func TestParse_Found(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want models.Counts
	}{
		{
			name: "leading line",
			raw:  "Result:\n0 times as REAL SENDER, 0 times as FAKE SENDER and 4 times as RECIPIENT.\nFOUND!!!",
			want: models.Counts{RealSender: 0, FakeSender: 0, Recipient: 4},
		},
		{
			name: "marker first",
			raw:  "FOUND!!!\n2 times as REAL SENDER, 0 times as FAKE SENDER and 5 times as RECIPIENT.",
			want: models.Counts{RealSender: 2, FakeSender: 0, Recipient: 5},
		},
		{
			name: "large counts",
			raw:  "Your address was FOUND!!!\n\n1234 times as REAL SENDER, 56 times as FAKE SENDER and 7890 times as RECIPIENT.\n",
			want: models.Counts{RealSender: 1234, FakeSender: 56, Recipient: 7890},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !got.Found {
				t.Error("expected Found outcome")
			}
			if got.Counts != tt.want {
				t.Errorf("Counts = %+v, want %+v", got.Counts, tt.want)
			}
		})
	}
}

func TestParse_NotFound(t *testing.T) {
	t.Parallel()

	tests := []string{
		"Sorry, this address was NOT found in any leak.",
		"Checking...\nNOT found\n",
	}
	for _, raw := range tests {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", raw, err)
		}
		if got != models.NotFound {
			t.Errorf("Parse(%q) = %+v, want NotFound", raw, got)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"unrelated", "Service temporarily unavailable"},
		{"counts without marker", "0 times as REAL SENDER, 0 times as FAKE SENDER and 4 times as RECIPIENT."},
		{"marker without counts", "FOUND!!!"},
		{"both negative marker and counts", "NOT found\n1 times as REAL SENDER, 0 times as FAKE SENDER and 0 times as RECIPIENT."},
		{"counts not on own line", "x 1 times as REAL SENDER, 0 times as FAKE SENDER and 0 times as RECIPIENT.\nFOUND!!!"},
		{"lower case", "1 times as real sender, 0 times as fake sender and 0 times as recipient.\nFOUND!!!"},
		{"overflow", "99999999999999999999999 times as REAL SENDER, 0 times as FAKE SENDER and 0 times as RECIPIENT.\nFOUND!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.raw)
			if !errors.Is(err, models.ErrInvalidResponse) {
				t.Fatalf("Parse() error = %v, want ErrInvalidResponse", err)
			}
			var le *models.LookupError
			if !errors.As(err, &le) {
				t.Fatal("expected *models.LookupError")
			}
			if le.Text != tt.raw {
				t.Errorf("Text = %q, want %q", le.Text, tt.raw)
			}
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	raw := "Result:\n3 times as REAL SENDER, 1 times as FAKE SENDER and 0 times as RECIPIENT.\nFOUND!!!"
	first, err1 := Parse(raw)
	second, err2 := Parse(raw)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if first != second {
		t.Errorf("outcomes differ: %+v vs %+v", first, second)
	}
}
