package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestWithCauseDoesNotMutateRegistered(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := ErrPipelineFailed.WithCause(cause)

	if wrapped == ErrPipelineFailed {
		t.Fatal("WithCause must return a copy")
	}
	if ErrPipelineFailed.cause != nil {
		t.Fatal("registered errno mutated")
	}
	if wrapped.Code != ErrPipelineFailed.Code || wrapped.HTTP != ErrPipelineFailed.HTTP {
		t.Errorf("copy lost code or status: %+v", wrapped)
	}
	if !stderrors.Is(wrapped, ErrPipelineFailed) {
		t.Error("wrapped errno should match its base by code")
	}
	if stderrors.Unwrap(wrapped) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestWithMessageKeepsCode(t *testing.T) {
	custom := ErrInvalidParam.WithMessage("A valid email is required")
	if custom.Code != ErrInvalidParam.Code {
		t.Errorf("code changed: %d", custom.Code)
	}
	if custom.Message() != "A valid email is required" {
		t.Errorf("message not applied: %s", custom.Message())
	}
	if ErrInvalidParam.Message() == custom.Message() {
		t.Error("registered errno mutated")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("nil in, nil out")
	}

	if got := FromError(ErrInvalidOTP); got.Code != ErrInvalidOTP.Code {
		t.Errorf("errno should pass through, got %+v", got)
	}

	// wrapped errno is still recovered
	wrapped := fmt.Errorf("verify: %w", ErrInvalidOTP)
	if got := FromError(wrapped); got.Code != ErrInvalidOTP.Code {
		t.Errorf("wrapped errno not recovered, got %+v", got)
	}

	plain := stderrors.New("boom")
	got := FromError(plain)
	if got.Code != ErrInternal.Code {
		t.Errorf("plain error should map to internal, got %+v", got)
	}
	if stderrors.Unwrap(got) != plain {
		t.Error("original error should be the cause")
	}
}

func TestCodeScheme(t *testing.T) {
	code := MakeCode(ServicePortfolio, CategoryAuth, 1)
	service, category, seq := ParseCode(code)
	if service != ServicePortfolio || category != CategoryAuth || seq != 1 {
		t.Errorf("ParseCode(%d) = %d, %d, %d", code, service, category, seq)
	}

	if !IsClientError(ErrEmptyQuestion.Code) {
		t.Error("empty question is a client error")
	}
	if !IsServerError(ErrPipelineFailed.Code) {
		t.Error("pipeline failure is a server error")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		errno *Errno
		want  int
	}{
		{ErrEmptyQuestion, 400},
		{ErrNoMessage, 400},
		{ErrUnauthorized, 401},
		{ErrInvalidOTP, 401},
		{ErrPipelineFailed, 500},
		{ErrMailDelivery, 400},
	}
	for _, tc := range cases {
		if got := tc.errno.HTTPStatus(); got != tc.want {
			t.Errorf("errno %d: HTTPStatus() = %d, want %d", tc.errno.Code, got, tc.want)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	e, ok := Lookup(ErrInvalidOTP.Code)
	if !ok || e != ErrInvalidOTP {
		t.Fatalf("Lookup(%d) = %v, %v", ErrInvalidOTP.Code, e, ok)
	}
	if len(Registered()) == 0 {
		t.Fatal("registry should not be empty")
	}
}
