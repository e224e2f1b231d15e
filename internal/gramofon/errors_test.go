package gramofon

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestClassifyNetworkErrorUnwrapsURLErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		message string
	}{
		{"refused", &url.Error{Op: "Post", URL: "http://10.0.0.9/api/x", Err: syscall.ECONNREFUSED}, "connection refused"},
		{"host unreachable", &url.Error{Op: "Post", URL: "http://10.0.0.9/api/x", Err: syscall.EHOSTUNREACH}, "host unreachable"},
		{"net unreachable", syscall.ENETUNREACH, "network unreachable"},
		{"timeout", os.ErrDeadlineExceeded, "request timed out"},
		{"other", errors.New("tls handshake broke"), "no response from device"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			callErr := ClassifyNetworkError(tc.err, "10.0.0.9")
			if callErr.Kind != FailureUnreachable {
				t.Errorf("kind = %v, want unreachable", callErr.Kind)
			}
			if callErr.Message != tc.message {
				t.Errorf("message = %q, want %q", callErr.Message, tc.message)
			}
			if !errors.Is(callErr, tc.err) && callErr.Err == nil {
				t.Error("underlying error lost")
			}
		})
	}
}

func TestClassifyNetworkErrorNil(t *testing.T) {
	if got := ClassifyNetworkError(nil, "10.0.0.9"); got != nil {
		t.Errorf("ClassifyNetworkError(nil) = %v, want nil", got)
	}
}

func TestFailurePredicatesMatchTheirKindOnly(t *testing.T) {
	unreachable := ClassifyNetworkError(syscall.ECONNREFUSED, "10.0.0.9")
	auth := NewAuthError("10.0.0.9", "login rejected by device")
	expired := NewSessionExpiredError("10.0.0.9", ModuleLedd, MethodLedGet)
	protocol := NewProtocolError("10.0.0.9", "response is not valid JSON", nil)
	device := NewDeviceError("10.0.0.9", ModuleMfgd, MethodUpgrade, CodeInvalidParams, "bad firmware_id")

	checks := []struct {
		name string
		pred func(error) bool
		only error
	}{
		{"IsUnreachable", IsUnreachable, unreachable},
		{"IsAuthFailure", IsAuthFailure, auth},
		{"IsSessionExpired", IsSessionExpired, expired},
		{"IsProtocolError", IsProtocolError, protocol},
		{"IsDeviceError", IsDeviceError, device},
	}
	all := []error{unreachable, auth, expired, protocol, device}

	for _, check := range checks {
		for _, err := range all {
			want := err == check.only
			if got := check.pred(err); got != want {
				t.Errorf("%s(%v) = %v, want %v", check.name, err, got, want)
			}
		}
		if check.pred(nil) {
			t.Errorf("%s(nil) = true", check.name)
		}
		if check.pred(context.Canceled) {
			t.Errorf("%s matched a non-CallError", check.name)
		}
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("probing 10.0.0.9: %w",
		NewSessionExpiredError("10.0.0.9", ModuleAnet, MethodStatus))
	if !IsSessionExpired(wrapped) {
		t.Error("IsSessionExpired failed to unwrap")
	}
}

func TestCallErrorMessageIncludesContext(t *testing.T) {
	err := NewDeviceError("192.168.1.50", ModuleMfgd, MethodUpgrade, CodeInvalidParams, "bad firmware_id")
	msg := err.Error()
	for _, want := range []string{"192.168.1.50", "mfgd.upgrade", "bad firmware_id", "Device Error"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestShortErrorMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ClassifyNetworkError(syscall.ECONNREFUSED, "10.0.0.9"), "unreachable (connection refused)"},
		{NewAuthError("10.0.0.9", "login rejected by device"), "login rejected"},
		{NewSessionExpiredError("10.0.0.9", ModuleLedd, MethodLedGet), "session expired (retry exhausted)"},
		{errors.New("plain failure"), "plain failure"},
	}
	for _, tc := range cases {
		if got := ShortErrorMessage(tc.err); got != tc.want {
			t.Errorf("ShortErrorMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

