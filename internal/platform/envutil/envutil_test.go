package envutil

import (
	"testing"
	"time"
)

func TestString(t *testing.T) {
	t.Setenv("QB_TEST_STRING", "  value ")
	if got := String("QB_TEST_STRING", "def", nil); got != "value" {
		t.Fatalf("got=%q", got)
	}
	t.Setenv("QB_TEST_STRING", "   ")
	if got := String("QB_TEST_STRING", "def", nil); got != "def" {
		t.Fatalf("blank should fall back: got=%q", got)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("QB_TEST_INT", "42")
	if got := Int("QB_TEST_INT", 1, nil); got != 42 {
		t.Fatalf("got=%d", got)
	}
	t.Setenv("QB_TEST_INT", "forty")
	if got := Int("QB_TEST_INT", 1, nil); got != 1 {
		t.Fatalf("bad int should fall back: got=%d", got)
	}
}

func TestBool(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"ON", false, true},
		{"0", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Setenv("QB_TEST_BOOL", tc.raw)
		if got := Bool("QB_TEST_BOOL", tc.def, nil); got != tc.want {
			t.Fatalf("Bool(%q, %v): got=%v want=%v", tc.raw, tc.def, got, tc.want)
		}
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"90s", 90 * time.Second},
		{"15", 15 * time.Second},
		{"soon", time.Minute},
		{"", time.Minute},
	}
	for _, tc := range cases {
		t.Setenv("QB_TEST_DURATION", tc.raw)
		if got := Duration("QB_TEST_DURATION", time.Minute, nil); got != tc.want {
			t.Fatalf("Duration(%q): got=%v want=%v", tc.raw, got, tc.want)
		}
	}
}

func TestFloatAndList(t *testing.T) {
	t.Setenv("QB_TEST_FLOAT", "0.25")
	if got := Float("QB_TEST_FLOAT", 1, nil); got != 0.25 {
		t.Fatalf("got=%v", got)
	}
	t.Setenv("QB_TEST_FLOAT", "quarter")
	if got := Float("QB_TEST_FLOAT", 1, nil); got != 1 {
		t.Fatalf("bad float should fall back: got=%v", got)
	}

	t.Setenv("QB_TEST_LIST", " https://a.example , ,https://b.example")
	got := List("QB_TEST_LIST", nil, nil)
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("got=%v", got)
	}
	t.Setenv("QB_TEST_LIST", " , ")
	if got := List("QB_TEST_LIST", []string{"d"}, nil); len(got) != 1 || got[0] != "d" {
		t.Fatalf("empty list should fall back: got=%v", got)
	}
}
