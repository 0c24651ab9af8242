// Package watch relays the "minute watched" telemetry the desktop client
// sends while a stream plays. It discovers the per-channel spade endpoint
// from the public channel page and forwards events to it.
package watch

// MinuteWatchedEvent is the body of POST /minute-watched-event.
type MinuteWatchedEvent struct {
	URL     string        `json:"url"`
	Payload *EventPayload `json:"payload"`
}

// EventPayload carries the already-encoded event blob.
type EventPayload struct {
	Data string `json:"data"`
}

// MinuteWatchedURL is the data of GET /minute-watched-request-url.
type MinuteWatchedURL struct {
	MinuteWatchedURL string `json:"minute_watched_url"`
}

// MinuteWatchedURLResponse wraps MinuteWatchedURL in the data envelope the
// client expects.
type MinuteWatchedURLResponse struct {
	Data MinuteWatchedURL `json:"data"`
}
