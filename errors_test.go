package sindex

import (
	"strings"
	"testing"
)

func TestErrMessages(t *testing.T) {
	cases := map[int]string{
		-1:  "site index <= 1.3",
		-4:  "no answer was generated",
		-8:  "species code is unknown",
		-12: "input parameter is not a valid establishment type",
		-99: "unknown issue",
	}
	for code, want := range cases {
		if got := errMessage(code); got != want {
			t.Errorf("errMessage(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	err := dllError("Sindex_HtAgeToSI", -8)
	msg := err.Error()
	for _, part := range []string{"Sindex_HtAgeToSI", "species code is unknown", "-8"} {
		if !strings.Contains(msg, part) {
			t.Errorf("error %q missing %q", msg, part)
		}
	}
}
