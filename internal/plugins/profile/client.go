package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/twester/twester/internal/upstream"
)

const maxHelixBody = 1 << 20

// ErrUnauthorized is returned when Helix rejects the caller's token.
var ErrUnauthorized = errors.New("helix rejected the token")

// ErrUnexpectedStatus is wrapped around any other non-2xx Helix reply.
var ErrUnexpectedStatus = errors.New("unexpected helix status")

// HelixClient looks up Twitch users on behalf of one token holder.
type HelixClient interface {
	GetMe(ctx context.Context, username string) (*HelixUsersResponse, error)
}

// ClientFactory builds a HelixClient bound to a caller's token.
type ClientFactory func(token string) HelixClient

type helixClient struct {
	http     *upstream.Client
	usersURL string
}

// NewHelixClient returns a client that sends the identity headers and
// "Authorization: Bearer <token>" on every call. usersURL is the full users
// endpoint, e.g. "https://api.twitch.tv/helix/users".
func NewHelixClient(base *upstream.Client, usersURL, token string) HelixClient {
	headers := upstream.IdentityHeaders()
	headers.Set("Authorization", "Bearer "+token)
	return &helixClient{
		http:     base.WithHeaders(headers),
		usersURL: usersURL,
	}
}

// NewClientFactory binds NewHelixClient to a shared transport.
func NewClientFactory(base *upstream.Client, usersURL string) ClientFactory {
	return func(token string) HelixClient {
		return NewHelixClient(base, usersURL, token)
	}
}

// GetMe fetches the user record for username. A 401 reply maps to
// ErrUnauthorized whatever its body says.
func (c *helixClient) GetMe(ctx context.Context, username string) (*HelixUsersResponse, error) {
	resp, err := c.http.Get(ctx, c.usersURL, nil, url.Values{"login": {username}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out HelixUsersResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxHelixBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding helix users reply: %w", err)
	}
	return &out, nil
}
