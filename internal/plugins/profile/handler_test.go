package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/twester/twester/internal/apperror"
)

// mockProfileService implements ProfileService for handler tests.
type mockProfileService struct {
	getMeFn func(ctx context.Context, token, username string) (*ProfileResponse, error)
}

func (m *mockProfileService) GetMe(ctx context.Context, token, username string) (*ProfileResponse, error) {
	if m.getMeFn != nil {
		return m.getMeFn(ctx, token, username)
	}
	return &ProfileResponse{}, nil
}

func newContext(target, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerGetMe_Success(t *testing.T) {
	var gotToken, gotUser string
	h := NewHandler(&mockProfileService{
		getMeFn: func(_ context.Context, token, username string) (*ProfileResponse, error) {
			gotToken, gotUser = token, username
			return &ProfileResponse{Data: Profile{ID: "1", Login: "alice", DisplayName: "Alice", ProfileImageURL: "u"}}, nil
		},
	})

	c, rec := newContext("/me?username=alice", "Bearer oauth:abc")
	if err := h.GetMe(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotToken != "oauth:abc" || gotUser != "alice" {
		t.Errorf("unexpected call token=%q user=%q", gotToken, gotUser)
	}

	want := `{"data":{"id":"1","login":"alice","display_name":"Alice","profile_image_url":"u"}}`
	if body := strings.TrimSpace(rec.Body.String()); body != want {
		t.Errorf("got %s, want %s", body, want)
	}
}

func TestHandlerGetMe_TokenErrors(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
		message       string
	}{
		{"missing", "", "Authorization token is missing"},
		{"not bearer", "Basic abc", "Authorization token is not of type Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&mockProfileService{
				getMeFn: func(context.Context, string, string) (*ProfileResponse, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			})

			c, _ := newContext("/me?username=alice", tt.authorization)
			err := h.GetMe(c)

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != http.StatusUnauthorized || appErr.Message != tt.message {
				t.Errorf("expected 401 %q, got %d %q", tt.message, appErr.Code, appErr.Message)
			}
		})
	}
}

func TestHandlerGetMe_MissingUsername(t *testing.T) {
	h := NewHandler(&mockProfileService{})

	c, _ := newContext("/me", "Bearer t")
	err := h.GetMe(c)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperror.TypeMalformedBody {
		t.Fatalf("expected malformed body error, got %v", err)
	}
}

func TestHandlerGetMe_ServiceError(t *testing.T) {
	h := NewHandler(&mockProfileService{
		getMeFn: func(context.Context, string, string) (*ProfileResponse, error) {
			return nil, apperror.NewUnauthorized("Unauthorized")
		},
	})

	c, _ := newContext("/me?username=alice", "Bearer t")
	if err := h.GetMe(c); apperror.SafeCode(err) != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
