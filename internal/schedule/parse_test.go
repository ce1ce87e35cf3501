package schedule

import (
	"fmt"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	due, ok := Parse("Call At July 21st 2025, 3:45 PM")
	if !ok {
		t.Fatalf("expected remarks to parse")
	}

	want := time.Date(2025, time.July, 21, 15, 45, 0, 0, Location)
	if !due.Equal(want) {
		t.Fatalf("unexpected due time: %v, want %v", due, want)
	}
	if due.Location() != Location {
		t.Fatalf("unexpected location: %v", due.Location())
	}
	if _, offset := due.Zone(); offset != 5*60*60+30*60 {
		t.Fatalf("unexpected offset: %d", offset)
	}
}

func TestParseVariants(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Time{
		"July 21 2025, 3:45 PM":               time.Date(2025, time.July, 21, 15, 45, 0, 0, Location),
		"  Call At March 2nd 2024, 11:05 AM ": time.Date(2024, time.March, 2, 11, 5, 0, 0, Location),
		"Call At December 3rd 2025, 12:00 AM": time.Date(2025, time.December, 3, 0, 0, 0, 0, Location),
		"Call At august 1ST 2025, 9:30 pm":    time.Date(2025, time.August, 1, 21, 30, 0, 0, Location),
		"Call At  May  14th  2025,  7:15 PM":  time.Date(2025, time.May, 14, 19, 15, 0, 0, Location),
		"Call At July 21st 2025, 3:5 PM":      time.Date(2025, time.July, 21, 15, 5, 0, 0, Location),
		"Call At July 21st 2025, 09:30 AM":    time.Date(2025, time.July, 21, 9, 30, 0, 0, Location),
	}

	for input, want := range cases {
		got, ok := Parse(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %v, want %v", input, got, want)
		}
	}
}

func TestParseRoundTripsEveryMonth(t *testing.T) {
	t.Parallel()

	for month := time.January; month <= time.December; month++ {
		for _, hour := range []int{0, 9, 12, 23} {
			want := time.Date(2026, month, 28, hour, 7, 0, 0, Location)
			text := fmt.Sprintf("Call At %s %dth %d, %s", month, want.Day(), want.Year(), want.Format("3:04 PM"))

			got, ok := Parse(text)
			if !ok {
				t.Fatalf("expected %q to parse", text)
			}
			if !got.Equal(want) {
				t.Fatalf("%q: got %v, want %v", text, got, want)
			}
		}
	}
}

func TestParseRejectsOtherFormats(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Call At",
		"Not interested",
		"2025-07-21 15:45",
		"21 July 2025, 3:45 PM",
		"July 21 2025 3:45 PM",
		"July 21 2025, 15:45",
		"Jul 21 2025, 3:45 PM",
		"July 32 2025, 3:45 PM",
		"Call At July 21 2025, 0:30 AM",
		"Call At July 21 2025, 00:30 PM",
		"Call At July 21 2025, 13:30 PM",
		"Call At July 21 2025, 3:60 PM",
		"Call At July 21st 2025, 3:45 PM and again tomorrow",
	}

	for _, input := range inputs {
		if due, ok := Parse(input); ok {
			t.Fatalf("expected %q to be rejected, got %v", input, due)
		}
	}
}
