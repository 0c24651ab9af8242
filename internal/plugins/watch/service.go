package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/twester/twester/internal/apperror"
	"github.com/twester/twester/internal/upstream"
)

// maxPageBody caps how much of a channel page or settings script we read.
const maxPageBody = 8 << 20

const (
	msgFetchFailed = "Error while trying to fetch minute watched url"
	msgSendFailed  = "Error while trying to send minute watched event"
	msgInvalidBody = "Invalid request body"
)

var (
	defaultSettingsPattern = regexp.MustCompile(`https://static\.twitchcdn\.net/config/settings.*?js`)
	spadeURLPattern        = regexp.MustCompile(`"spade_url":"(.*?)"`)
)

// WatchService defines the minute-watched contract.
type WatchService interface {
	MinuteWatchedURL(ctx context.Context, login string) (string, error)
	SendEvent(ctx context.Context, event MinuteWatchedEvent) error
}

type watchService struct {
	http            *upstream.Client
	webURL          string
	cache           URLCache
	eventHosts      []string
	settingsPattern *regexp.Regexp
}

// NewWatchService creates the service. webURL is the Twitch website root
// (e.g. "https://www.twitch.tv"); eventHosts are the host suffixes events
// may be forwarded to.
func NewWatchService(base *upstream.Client, webURL string, cache URLCache, eventHosts []string) WatchService {
	return &watchService{
		http:            base.WithHeaders(upstream.IdentityHeaders()),
		webURL:          webURL,
		cache:           cache,
		eventHosts:      eventHosts,
		settingsPattern: defaultSettingsPattern,
	}
}

// MinuteWatchedURL returns the spade endpoint for login, from the cache when
// possible. Cache failures are logged and otherwise ignored.
func (s *watchService) MinuteWatchedURL(ctx context.Context, login string) (string, error) {
	if cached, ok, err := s.cache.Get(ctx, login); err != nil {
		slog.Warn("spade url cache read failed", slog.String("login", login), slog.Any("error", err))
	} else if ok {
		return cached, nil
	}

	spadeURL, err := s.discover(ctx, login)
	if err != nil {
		return "", apperror.NewInternalMessage(msgFetchFailed, err)
	}

	if err := s.cache.Set(ctx, login, spadeURL); err != nil {
		slog.Warn("spade url cache write failed", slog.String("login", login), slog.Any("error", err))
	}
	return spadeURL, nil
}

// discover scrapes the channel page for the settings script, then the
// script for the spade URL.
func (s *watchService) discover(ctx context.Context, login string) (string, error) {
	page, err := s.fetch(ctx, s.webURL+"/"+url.PathEscape(login))
	if err != nil {
		return "", fmt.Errorf("fetching channel page: %w", err)
	}

	settingsURL := s.settingsPattern.FindString(page)
	if settingsURL == "" {
		return "", errors.New("settings script not found on channel page")
	}

	settings, err := s.fetch(ctx, settingsURL)
	if err != nil {
		return "", fmt.Errorf("fetching settings script: %w", err)
	}

	m := spadeURLPattern.FindStringSubmatch(settings)
	if m == nil || m[1] == "" {
		return "", errors.New("spade_url not found in settings script")
	}
	return m[1], nil
}

func (s *watchService) fetch(ctx context.Context, target string) (string, error) {
	resp, err := s.http.Get(ctx, target, nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SendEvent forwards one event as a form POST. Only https URLs on an
// allowed host are accepted; spade answers 204 on success.
func (s *watchService) SendEvent(ctx context.Context, event MinuteWatchedEvent) error {
	if event.URL == "" || event.Payload == nil {
		return apperror.NewBadRequest(msgInvalidBody)
	}
	if !s.allowed(event.URL) {
		return apperror.NewBadRequest(msgInvalidBody)
	}

	resp, err := s.http.PostForm(ctx, event.URL, nil, url.Values{"data": {event.Payload.Data}})
	if err != nil {
		return apperror.NewInternalMessage(msgSendFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBody))

	if resp.StatusCode != http.StatusNoContent {
		return apperror.NewInternalMessage(msgSendFailed, fmt.Errorf("spade status %d", resp.StatusCode))
	}
	return nil
}

// allowed reports whether raw is an https URL whose host is, or is a
// subdomain of, one of the configured event hosts.
func (s *watchService) allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range s.eventHosts {
		suffix = strings.ToLower(suffix)
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
