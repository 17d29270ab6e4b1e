package kafka

import "time"

// ActivityTrackedEvent is emitted after a user activity has been appended to
// the activity log, for downstream analytics consumers.
type ActivityTrackedEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	UserID       uint      `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	ProductID    uint      `json:"product_id,omitempty"`
	Category     string    `json:"category,omitempty"`
	SearchQuery  string    `json:"search_query,omitempty"`
	SessionID    string    `json:"session_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeActivityTracked = "activity.tracked"
)

// Kafka topics
const (
	TopicUserActivity = "user-activity"
)
