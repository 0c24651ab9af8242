// Package auth proxies the Twitch password login and its challenge flow.
// The first-party client posts credentials here; we forward them to the
// passport service with the official web client's identity, and translate
// the reply (token, CAPTCHA proof, numeric error code) into a stable shape.
//
// Logical login failures are NOT HTTP errors: they travel inside a 200 body
// because the client needs the CAPTCHA proof that accompanies them to make
// the next step of the challenge.
package auth

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest starts the flow with plain credentials (POST /auth).
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TwoFactorRequest continues the flow with an authenticator token
// (POST /auth/two-fa). Captcha is the proof returned by the previous step.
type TwoFactorRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Captcha  string `json:"captcha"`
	TwoFA    string `json:"two_fa"`
}

// VerificationCodeRequest continues the flow with the e-mailed Twitchguard
// code (POST /auth/code).
type VerificationCodeRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Captcha  string `json:"captcha"`
	Code     string `json:"code"`
}

// RequiredFields lists the keys that must be present. Empty strings are
// values and are forwarded as-is.
func (r *LoginRequest) RequiredFields() []string {
	return []string{"username", "password"}
}

// RequiredFields lists the keys that must be present. captcha may be ""
// when passport sent no proof with the challenge.
func (r *TwoFactorRequest) RequiredFields() []string {
	return []string{"username", "password", "captcha", "two_fa"}
}

// RequiredFields lists the keys that must be present.
func (r *VerificationCodeRequest) RequiredFields() []string {
	return []string{"username", "password", "captcha", "code"}
}

// --- Passport wire types ---

// passportCaptcha wraps the CAPTCHA proof the way passport expects it.
type passportCaptcha struct {
	Proof string `json:"proof"`
}

// passportLoginBody is the exact body POSTed to passport /login. Absent
// optionals are sent as JSON null, never omitted.
type passportLoginBody struct {
	Username        string           `json:"username"`
	Password        string           `json:"password"`
	ClientID        string           `json:"client_id"`
	UndeleteUser    bool             `json:"undelete_user"`
	RememberMe      bool             `json:"remember_me"`
	Captcha         *passportCaptcha `json:"captcha"`
	AuthyToken      *string          `json:"authy_token"`
	TwitchguardCode *string          `json:"twitchguard_code"`
}

// PassportResponse is the passport /login reply. Every field is optional;
// nil means the key was absent.
type PassportResponse struct {
	AccessToken      *string `json:"access_token"`
	CaptchaProof     *string `json:"captcha_proof"`
	Error            *string `json:"error"`
	ErrorCode        *int    `json:"error_code"`
	ErrorDescription *string `json:"error_description"`
	ObscuredEmail    *string `json:"obscured_email"`
}

// --- Public response ---

// AuthError is the logical error carried inside a 200 AuthResponse. Code is
// the untouched passport error code; the client branches on it.
type AuthError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AuthResponse is what /auth, /auth/two-fa and /auth/code return.
type AuthResponse struct {
	AccessToken *string    `json:"access_token,omitempty"`
	Captcha     *string    `json:"captcha,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Error       *AuthError `json:"error,omitempty"`
}
