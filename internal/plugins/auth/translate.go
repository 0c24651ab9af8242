package auth

// ErrorKind is the closed set of login failures the client understands.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidLoginCredentials
	KindTwoFactorRequired
	KindInvalidTwoFactorToken
	KindVerificationCodeRequired
	KindInvalidVerificationCode
	KindTooManyInvalidAttempts
)

// Passport error codes we recognize.
const (
	codeTooManyInvalidAttempts   = 1000
	codeInvalidUsername          = 3001
	codeInvalidPassword          = 3002
	codeInvalidCredentials       = 3003
	codeTwoFactorRequired        = 3011
	codeInvalidTwoFactorToken    = 3012
	codeVerificationCodeRequired = 3022
	codeInvalidVerificationCode  = 3023
)

const tooManyAttemptsMessage = "You have made several failed login attempts. You will have to wait for sometime(typically several hours) before trying again. This occurs because a CAPTCHA SOLVING is required by Twitch and we cannot do that."

// KindForCode maps a passport error code onto an ErrorKind. Unlisted codes
// are KindUnknown.
func KindForCode(code int) ErrorKind {
	switch code {
	case codeInvalidUsername, codeInvalidPassword, codeInvalidCredentials:
		return KindInvalidLoginCredentials
	case codeTwoFactorRequired:
		return KindTwoFactorRequired
	case codeInvalidTwoFactorToken:
		return KindInvalidTwoFactorToken
	case codeVerificationCodeRequired:
		return KindVerificationCodeRequired
	case codeInvalidVerificationCode:
		return KindInvalidVerificationCode
	case codeTooManyInvalidAttempts:
		return KindTooManyInvalidAttempts
	default:
		return KindUnknown
	}
}

// Message is the human-readable text sent to the client for k.
func (k ErrorKind) Message() string {
	switch k {
	case KindInvalidLoginCredentials:
		return "Invalid username or password."
	case KindTwoFactorRequired:
		return "Two factor authentication token required."
	case KindInvalidTwoFactorToken:
		return "Invalid two factor authentication token."
	case KindVerificationCodeRequired:
		return "Twitchguard verification code required."
	case KindInvalidVerificationCode:
		return "Invalid Twitchguard verification code."
	case KindTooManyInvalidAttempts:
		return tooManyAttemptsMessage
	default:
		return "Something unexpected happened"
	}
}

// String returns a stable identifier for logs.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidLoginCredentials:
		return "invalid_login_credentials"
	case KindTwoFactorRequired:
		return "two_factor_required"
	case KindInvalidTwoFactorToken:
		return "invalid_two_factor_token"
	case KindVerificationCodeRequired:
		return "verification_code_required"
	case KindInvalidVerificationCode:
		return "invalid_verification_code"
	case KindTooManyInvalidAttempts:
		return "too_many_invalid_attempts"
	default:
		return "unknown"
	}
}

// TranslateErrorCode is the pure code -> (kind, message) mapping.
func TranslateErrorCode(code int) (ErrorKind, string) {
	kind := KindForCode(code)
	return kind, kind.Message()
}
