package format

import (
	"testing"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7325, "2:02:05"},
		{36000, "10:00:00"},
	}

	for _, tc := range cases {
		if got := Duration(tc.seconds); got != tc.want {
			t.Errorf("Duration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestSignedDuration(t *testing.T) {
	if got := SignedDuration(-125); got != "-2:05" {
		t.Errorf("SignedDuration(-125) = %q, want \"-2:05\"", got)
	}
	if got := SignedDuration(125); got != "2:05" {
		t.Errorf("SignedDuration(125) = %q, want \"2:05\"", got)
	}
	if got := SignedDuration(0); got != "0:00" {
		t.Errorf("SignedDuration(0) = %q, want \"0:00\"", got)
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3:45", 225, false},
		{"0:30", 30, false},
		{"10:00", 600, false},
		{" 4:05 ", 245, false},
		{"4", 240, false},
		{"4.5", 270, false},
		{"", 0, true},
		{"  ", 0, true},
		{"3:60", 0, true},
		{"3:-1", 0, true},
		{"abc", 0, true},
		{"a:b", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseDuration(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDuration(%q) expected error, got %d", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}
