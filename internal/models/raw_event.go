package models

// EventBatch is the intake envelope: an ordered list of raw items plus the
// client's send time. The client clock in SentAt may drift from server time;
// the normalizer uses the difference to correct item timestamps.
//
// Example JSON:
//
//	{
//	  "sent_at": "2025-11-02T09:14:03.120Z",
//	  "batch": [
//	    {
//	      "event_id": "5f6d0a6e-5cb1-4d08-9d0b-0a8f2f1d9c11",
//	      "event_name": "page_viewed",
//	      "event_type": "page",
//	      "timestamp": "2025-11-02T09:14:02.900Z",
//	      "anonymous_id": "0d0f2b9c-90c4-4f40-a7cb-0a5c9a33f001",
//	      "message_id": "m-8842",
//	      "context": {
//	        "library": {"name": "analytics.js", "version": "2.4.1"},
//	        "page": {"path": "/pricing", "url": "https://acme.io/pricing?utm_source=ads"},
//	        "user_agent": "Mozilla/5.0 ...",
//	        "locale": "en-US",
//	        "channel": "web"
//	      }
//	    }
//	  ]
//	}
type EventBatch struct {
	SentAt any         `json:"sent_at"`
	Batch  []*RawEvent `json:"batch"`
}

// RawEvent is one client-supplied batch item. It is transient: constructed
// per request, consumed synchronously, never persisted as-is. Identifier and
// timestamp fields are untrusted and may be absent, empty, or malformed.
type RawEvent struct {
	EventID     string         `json:"event_id"`
	EventName   string         `json:"event_name"`
	EventType   string         `json:"event_type"`
	Timestamp   any            `json:"timestamp"`
	AnonymousID string         `json:"anonymous_id"`
	UserID      string         `json:"user_id"`
	SessionID   string         `json:"session_id"`
	MessageID   string         `json:"message_id"`
	Context     RawContext     `json:"context"`
	Properties  map[string]any `json:"properties"`
	Traits      map[string]any `json:"traits"`
}

// RawContext carries request-derived client context for enrichment.
type RawContext struct {
	Library        RawLibrary `json:"library"`
	Page           RawPage    `json:"page"`
	UserAgent      string     `json:"user_agent"`
	Locale         string     `json:"locale"`
	Channel        string     `json:"channel"`
	IP             string     `json:"ip"`
	Screen         RawScreen  `json:"screen"`
	HandshakeToken string     `json:"handshake_token"`
}

type RawLibrary struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type RawPage struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
	Search   string `json:"search"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

type RawScreen struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Event types accepted on the wire. Unknown types are kept verbatim and
// treated like track events.
const (
	EventTypeTrack    = "track"
	EventTypePage     = "page"
	EventTypeScreen   = "screen"
	EventTypeIdentify = "identify"
)

// Channels named in the capture surface.
const (
	ChannelWeb      = "web"
	ChannelApp      = "app"
	ChannelWhatsApp = "whatsapp"
)
