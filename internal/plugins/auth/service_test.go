package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/twester/twester/internal/apperror"
)

// --- Mock Passport Client ---

// mockPassport implements PassportClient for testing.
type mockPassport struct {
	sendUsernamePasswordFn   func(ctx context.Context, username, password string) (*http.Response, error)
	sendTwoFAFn              func(ctx context.Context, req TwoFactorRequest) (*http.Response, error)
	sendVerificationCodeFn   func(ctx context.Context, req VerificationCodeRequest) (*http.Response, error)
	resendVerificationCodeFn func(ctx context.Context, login string) (*http.Response, error)
}

func (m *mockPassport) SendUsernamePassword(ctx context.Context, username, password string) (*http.Response, error) {
	if m.sendUsernamePasswordFn != nil {
		return m.sendUsernamePasswordFn(ctx, username, password)
	}
	return reply(http.StatusOK, `{}`), nil
}

func (m *mockPassport) SendTwoFA(ctx context.Context, req TwoFactorRequest) (*http.Response, error) {
	if m.sendTwoFAFn != nil {
		return m.sendTwoFAFn(ctx, req)
	}
	return reply(http.StatusOK, `{}`), nil
}

func (m *mockPassport) SendVerificationCode(ctx context.Context, req VerificationCodeRequest) (*http.Response, error) {
	if m.sendVerificationCodeFn != nil {
		return m.sendVerificationCodeFn(ctx, req)
	}
	return reply(http.StatusOK, `{}`), nil
}

func (m *mockPassport) ResendVerificationCode(ctx context.Context, login string) (*http.Response, error) {
	if m.resendVerificationCodeFn != nil {
		return m.resendVerificationCodeFn(ctx, login)
	}
	return reply(http.StatusOK, ``), nil
}

// reply builds a canned upstream response.
func reply(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// --- NormalizeResponse ---

func TestNormalizeResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply PassportResponse
		want  string
	}{
		{
			name:  "empty",
			reply: PassportResponse{},
			want:  `{}`,
		},
		{
			name:  "token only",
			reply: PassportResponse{AccessToken: strPtr("oauth:abc")},
			want:  `{"access_token":"oauth:abc"}`,
		},
		{
			name:  "captcha with error",
			reply: PassportResponse{CaptchaProof: strPtr("CX"), ErrorCode: intPtr(3011)},
			want:  `{"captcha":"CX","error":{"code":3011,"message":"Two factor authentication token required."}}`,
		},
		{
			name:  "email renamed",
			reply: PassportResponse{AccessToken: strPtr("t"), ObscuredEmail: strPtr("a***@x.com")},
			want:  `{"access_token":"t","email":"a***@x.com"}`,
		},
		{
			name: "description and error string dropped",
			reply: PassportResponse{
				Error:            strPtr("Incorrect username or password."),
				ErrorDescription: strPtr("user credentials incorrect"),
				ErrorCode:        intPtr(3001),
			},
			want: `{"error":{"code":3001,"message":"Invalid username or password."}}`,
		},
		{
			name:  "error string without code",
			reply: PassportResponse{Error: strPtr("something")},
			want:  `{}`,
		},
		{
			name:  "unknown code kept",
			reply: PassportResponse{ErrorCode: intPtr(4242)},
			want:  `{"error":{"code":4242,"message":"Something unexpected happened"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustJSON(t, NormalizeResponse(tt.reply))
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// --- Login flow ---

func TestLogin_TwoFactorChallenge(t *testing.T) {
	var gotUser, gotPass string
	svc := NewAuthService(&mockPassport{
		sendUsernamePasswordFn: func(_ context.Context, username, password string) (*http.Response, error) {
			gotUser, gotPass = username, password
			return reply(http.StatusBadRequest, `{"error_code":3011,"captcha_proof":"CX","error":"missing authy token"}`), nil
		},
	})

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "alice" || gotPass != "pw" {
		t.Errorf("credentials not forwarded: %q/%q", gotUser, gotPass)
	}

	want := `{"captcha":"CX","error":{"code":3011,"message":"Two factor authentication token required."}}`
	if got := mustJSON(t, resp); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewAuthService(&mockPassport{
		sendUsernamePasswordFn: func(context.Context, string, string) (*http.Response, error) {
			return reply(http.StatusBadRequest, `{"error_code":3001}`), nil
		},
	})

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"error":{"code":3001,"message":"Invalid username or password."}}`
	if got := mustJSON(t, resp); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTwoFactor_Success(t *testing.T) {
	var got TwoFactorRequest
	svc := NewAuthService(&mockPassport{
		sendTwoFAFn: func(_ context.Context, req TwoFactorRequest) (*http.Response, error) {
			got = req
			return reply(http.StatusOK, `{"access_token":"oauth:abc","obscured_email":"a***@x.com"}`), nil
		},
	})

	req := TwoFactorRequest{Username: "alice", Password: "pw", Captcha: "CX", TwoFA: "123456"}
	resp, err := svc.TwoFactor(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != req {
		t.Errorf("request not forwarded: %+v", got)
	}

	want := `{"access_token":"oauth:abc","email":"a***@x.com"}`
	if body := mustJSON(t, resp); body != want {
		t.Errorf("got %s, want %s", body, want)
	}
}

func TestVerificationCode_Invalid(t *testing.T) {
	svc := NewAuthService(&mockPassport{
		sendVerificationCodeFn: func(context.Context, VerificationCodeRequest) (*http.Response, error) {
			return reply(http.StatusBadRequest, `{"error_code":3023}`), nil
		},
	})

	resp, err := svc.VerificationCode(context.Background(), VerificationCodeRequest{
		Username: "alice", Password: "pw", Captcha: "CX", Code: "999999",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"error":{"code":3023,"message":"Invalid Twitchguard verification code."}}`
	if got := mustJSON(t, resp); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLogin_TransportError(t *testing.T) {
	svc := NewAuthService(&mockPassport{
		sendUsernamePasswordFn: func(context.Context, string, string) (*http.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperror.SafeCode(err) != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apperror.SafeCode(err))
	}
	if strings.Contains(apperror.SafeMessage(err), "connection refused") {
		t.Error("transport detail leaked into client message")
	}
}

func TestLogin_NonJSONReply(t *testing.T) {
	svc := NewAuthService(&mockPassport{
		sendUsernamePasswordFn: func(context.Context, string, string) (*http.Response, error) {
			return reply(http.StatusBadGateway, `<html>bad gateway</html>`), nil
		},
	})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})
	if apperror.SafeCode(err) != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d (%v)", apperror.SafeCode(err), err)
	}
}

// --- ResendCode ---

func TestResendCode_Success(t *testing.T) {
	var gotLogin string
	svc := NewAuthService(&mockPassport{
		resendVerificationCodeFn: func(_ context.Context, login string) (*http.Response, error) {
			gotLogin = login
			return reply(http.StatusNoContent, ``), nil
		},
	})

	raw, err := svc.ResendCode(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLogin != "alice" {
		t.Errorf("expected login alice, got %q", gotLogin)
	}
	if string(raw) != `{}` {
		t.Errorf("expected {}, got %s", raw)
	}
}

func TestResendCode_RejectionPassedThrough(t *testing.T) {
	svc := NewAuthService(&mockPassport{
		resendVerificationCodeFn: func(context.Context, string) (*http.Response, error) {
			return reply(http.StatusTooManyRequests, `{"error":"slow down"}`), nil
		},
	})

	raw, err := svc.ResendCode(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"error":"slow down"}` {
		t.Errorf("unexpected body %s", raw)
	}
}

func TestResendCode_NonJSONRejection(t *testing.T) {
	svc := NewAuthService(&mockPassport{
		resendVerificationCodeFn: func(context.Context, string) (*http.Response, error) {
			return reply(http.StatusInternalServerError, `oops`), nil
		},
	})

	if _, err := svc.ResendCode(context.Background(), "alice"); apperror.SafeCode(err) != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
}
