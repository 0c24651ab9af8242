package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/twester/twester/internal/apperror"
)

// maxPassportBody caps how much of a passport reply we are willing to read.
const maxPassportBody = 1 << 20

// AuthService defines the login flow contract. Handlers call these methods;
// they never touch the passport client directly.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	TwoFactor(ctx context.Context, req TwoFactorRequest) (*AuthResponse, error)
	VerificationCode(ctx context.Context, req VerificationCodeRequest) (*AuthResponse, error)
	ResendCode(ctx context.Context, login string) (json.RawMessage, error)
}

// authService implements AuthService on top of a PassportClient.
type authService struct {
	passport PassportClient
}

// NewAuthService creates a new auth service with the given passport client.
func NewAuthService(passport PassportClient) AuthService {
	return &authService{passport: passport}
}

// Login runs the first step of the flow.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	resp, err := s.passport.SendUsernamePassword(ctx, req.Username, req.Password)
	return s.finish(ctx, "login", resp, err)
}

// TwoFactor runs the authenticator-token step.
func (s *authService) TwoFactor(ctx context.Context, req TwoFactorRequest) (*AuthResponse, error) {
	resp, err := s.passport.SendTwoFA(ctx, req)
	return s.finish(ctx, "two_fa", resp, err)
}

// VerificationCode runs the Twitchguard e-mail code step.
func (s *authService) VerificationCode(ctx context.Context, req VerificationCodeRequest) (*AuthResponse, error) {
	resp, err := s.passport.SendVerificationCode(ctx, req)
	return s.finish(ctx, "verification_code", resp, err)
}

// ResendCode asks passport to resend the verification e-mail. A 2xx reply
// yields an empty object; anything else is passed through verbatim so the
// client sees passport's own explanation.
func (s *authService) ResendCode(ctx context.Context, login string) (json.RawMessage, error) {
	resp, err := s.passport.ResendVerificationCode(ctx, login)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("resending verification code: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return json.RawMessage(`{}`), nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPassportBody))
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading resend reply: %w", err))
	}
	if !json.Valid(raw) {
		return nil, apperror.NewInternal(fmt.Errorf("resend reply is not JSON (status %d)", resp.StatusCode))
	}

	slog.Info("verification code resend rejected", slog.Int("status", resp.StatusCode))
	return json.RawMessage(raw), nil
}

// finish decodes a passport reply regardless of its HTTP status (logical
// errors arrive as 400s with a JSON body) and projects it.
func (s *authService) finish(ctx context.Context, step string, resp *http.Response, err error) (*AuthResponse, error) {
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("passport %s: %w", step, err))
	}
	defer resp.Body.Close()

	var reply PassportResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPassportBody)).Decode(&reply); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("decoding passport %s reply (status %d): %w", step, resp.StatusCode, err))
	}

	out := NormalizeResponse(reply)

	attrs := []slog.Attr{
		slog.String("step", step),
		slog.Int("status", resp.StatusCode),
		slog.Bool("token", out.AccessToken != nil),
	}
	if out.Error != nil {
		attrs = append(attrs,
			slog.Int("error_code", out.Error.Code),
			slog.String("error_kind", KindForCode(out.Error.Code).String()),
		)
	}
	slog.LogAttrs(ctx, slog.LevelInfo, "passport reply", attrs...)

	return &out, nil
}

// NormalizeResponse projects a passport reply onto the public shape. It is
// a pure rename-and-subset: nothing appears that passport did not send, and
// error_description is dropped in favor of our own message.
func NormalizeResponse(reply PassportResponse) AuthResponse {
	var out AuthResponse

	if reply.AccessToken != nil {
		out.AccessToken = reply.AccessToken
	}
	if reply.CaptchaProof != nil {
		out.Captcha = reply.CaptchaProof
	}
	if reply.ObscuredEmail != nil {
		out.Email = reply.ObscuredEmail
	}
	if reply.ErrorCode != nil {
		_, message := TranslateErrorCode(*reply.ErrorCode)
		out.Error = &AuthError{Code: *reply.ErrorCode, Message: message}
	}

	return out
}
