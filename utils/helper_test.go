package utils

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 9*3600 + 30*60, false},
		{"19:00:00", 19 * 3600, false},
		{"23:59:59", 23*3600 + 59*60 + 59, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"0930", 0, true},
		{"aa:bb", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("07:05")
	if err != nil || got != "07:05:00" {
		t.Fatalf("NormalizeClock = %q, %v", got, err)
	}
	if _, err := NormalizeClock("7pm"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[string]string{
		"19:00:00": "7:00 PM",
		"00:15":    "12:15 AM",
		"12:00":    "12:00 PM",
		"09:05:00": "9:05 AM",
		"bogus":    "bogus",
	}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-01-15"); got != "Monday, January 15, 2024" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate("someday"); got != "someday" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil || loc != time.UTC {
		t.Fatalf("empty zone: %v %v", loc, err)
	}
	loc, err = LoadLocation("Not/AZone")
	if err == nil || loc != time.UTC {
		t.Fatalf("unknown zone: %v %v", loc, err)
	}
	loc, err = LoadLocation("Asia/Kolkata")
	if err != nil || loc.String() != "Asia/Kolkata" {
		t.Fatalf("valid zone: %v %v", loc, err)
	}
}

func TestLocalDate(t *testing.T) {
	ny, _ := LoadLocation("America/New_York")
	at := time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC)
	if got := LocalDate(at, ny); got != "2024-01-15" {
		t.Fatalf("LocalDate = %q", got)
	}
	if got := LocalDate(at, time.UTC); got != "2024-01-16" {
		t.Fatalf("LocalDate = %q", got)
	}
}

func TestClockMinute(t *testing.T) {
	for in, want := range map[string]string{"19:00:00": "19:00", "19:00": "19:00", "9:0": "9:0"} {
		if got := ClockMinute(in); got != want {
			t.Errorf("ClockMinute(%q) = %q, want %q", in, got, want)
		}
	}
}
