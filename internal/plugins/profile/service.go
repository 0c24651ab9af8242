package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twester/twester/internal/apperror"
)

// ProfileService defines the /me lookup contract.
type ProfileService interface {
	GetMe(ctx context.Context, token, username string) (*ProfileResponse, error)
}

type profileService struct {
	clients ClientFactory
}

// NewProfileService creates a profile service that builds one Helix client
// per call from the given factory.
func NewProfileService(clients ClientFactory) ProfileService {
	return &profileService{clients: clients}
}

// GetMe looks up username with the caller's token and projects the first
// record. Helix 401 becomes our 401; any other unusable reply is a 502.
func (s *profileService) GetMe(ctx context.Context, token, username string) (*ProfileResponse, error) {
	users, err := s.clients(token).GetMe(ctx, username)
	switch {
	case errors.Is(err, ErrUnauthorized):
		return nil, apperror.NewUnauthorized("Unauthorized")
	case errors.Is(err, ErrUnexpectedStatus):
		return nil, apperror.NewBadGateway("Unexpected response from Twitch", err)
	case err != nil:
		return nil, apperror.NewInternal(fmt.Errorf("fetching user %q: %w", username, err))
	}

	if len(users.Data) == 0 {
		slog.Warn("helix returned no users", slog.String("login", username))
		return nil, apperror.NewBadGateway("Twitch returned no user for this login", nil)
	}

	return &ProfileResponse{Data: toProfile(users.Data[0])}, nil
}
