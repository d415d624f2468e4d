package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFrom(t *testing.T) {
	inner := New(http.StatusNotFound, "question_not_found", errors.New("missing"))
	wrapped := fmt.Errorf("load: %w", inner)
	if got := From(wrapped, http.StatusInternalServerError, "x"); got != inner {
		t.Fatalf("expected inner api error, got %+v", got)
	}
	plain := errors.New("boom")
	got := From(plain, http.StatusInternalServerError, "list_failed")
	if got.Status != http.StatusInternalServerError || got.Code != "list_failed" || !errors.Is(got, plain) {
		t.Fatalf("unexpected fallback: %+v", got)
	}
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{New(400, "bad", errors.New("detail")), "detail"},
		{New(400, "bad", nil), "bad"},
		{New(418, "", nil), "api error (418)"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got=%q want=%q", got, tc.want)
		}
	}
}
