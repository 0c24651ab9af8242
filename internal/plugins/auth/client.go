package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/twester/twester/internal/upstream"
)

// PassportClient sends login attempts to the passport service. One method
// per step of the challenge flow. Responses are returned unread; the caller
// owns (and must close) the body.
type PassportClient interface {
	SendUsernamePassword(ctx context.Context, username, password string) (*http.Response, error)
	SendTwoFA(ctx context.Context, req TwoFactorRequest) (*http.Response, error)
	SendVerificationCode(ctx context.Context, req VerificationCodeRequest) (*http.Response, error)
	ResendVerificationCode(ctx context.Context, login string) (*http.Response, error)
}

// passportClient implements PassportClient over the shared transport.
type passportClient struct {
	http      *upstream.Client
	loginURL  string
	resendURL string
}

// NewPassportClient creates a passport client rooted at baseURL (e.g.
// "https://passport.twitch.tv"). The identity headers are attached here so
// no caller can forget them.
func NewPassportClient(base *upstream.Client, baseURL string) PassportClient {
	return &passportClient{
		http:      base.WithHeaders(upstream.IdentityHeaders()),
		loginURL:  baseURL + "/login",
		resendURL: baseURL + "/resend_login_verification_email",
	}
}

// SendUsernamePassword is the first step: credentials only.
func (c *passportClient) SendUsernamePassword(ctx context.Context, username, password string) (*http.Response, error) {
	return c.http.Post(ctx, c.loginURL, nil, newLoginBody(username, password))
}

// SendTwoFA answers a 3011 challenge with an authenticator token.
func (c *passportClient) SendTwoFA(ctx context.Context, req TwoFactorRequest) (*http.Response, error) {
	body := newLoginBody(req.Username, req.Password)
	body.Captcha = &passportCaptcha{Proof: req.Captcha}
	body.AuthyToken = &req.TwoFA
	return c.http.Post(ctx, c.loginURL, nil, body)
}

// SendVerificationCode answers a 3022 challenge with the e-mailed code.
func (c *passportClient) SendVerificationCode(ctx context.Context, req VerificationCodeRequest) (*http.Response, error) {
	body := newLoginBody(req.Username, req.Password)
	body.Captcha = &passportCaptcha{Proof: req.Captcha}
	body.TwitchguardCode = &req.Code
	return c.http.Post(ctx, c.loginURL, nil, body)
}

// ResendVerificationCode asks passport to e-mail a fresh Twitchguard code.
func (c *passportClient) ResendVerificationCode(ctx context.Context, login string) (*http.Response, error) {
	target := c.resendURL + "?" + url.Values{"login": {login}}.Encode()
	return c.http.Post(ctx, target, nil, struct{}{})
}

// newLoginBody fills the fields that never change between steps.
func newLoginBody(username, password string) *passportLoginBody {
	return &passportLoginBody{
		Username:     username,
		Password:     password,
		ClientID:     upstream.ClientID,
		UndeleteUser: false,
		RememberMe:   true,
	}
}
