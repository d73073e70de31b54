package models

import "time"

// EventType is the kind of analytics event
type EventType string

const (
	EventView  EventType = "view"
	EventShare EventType = "share"
	EventLike  EventType = "like"
)

// ValidEvents defines allowed analytics events
var ValidEvents = map[EventType]bool{
	EventView:  true,
	EventShare: true,
	EventLike:  true,
}

// AnalyticsEvent is an append-only log entry about an insight
type AnalyticsEvent struct {
	ID        string    `json:"id" db:"id"`
	InsightID string    `json:"insight_id" db:"insight_id"`
	Event     EventType `json:"event" db:"event"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
}

// Visitor carries optional request metadata stored with an event
type Visitor struct {
	UserAgent string
	IPAddress string
}

// EventRequest is the public event payload
type EventRequest struct {
	InsightID string    `json:"insight_id"`
	Event     EventType `json:"event"`
}
