// Package queue defines message payloads exchanged over the message broker.
package queue

import "encoding/json"

// MatchSnapshotEvent is the message an external scoring feed publishes for
// every new snapshot of a match. Data is kept raw: snapshot documents are
// schema-less and are stored as delivered.
type MatchSnapshotEvent struct {
	MatchID   string          `json:"match_id"`
	Timestamp string          `json:"timestamp"` // RFC3339; empty means "now"
	Data      json.RawMessage `json:"data"`
}

// LinkAccessedEvent is published after every successful public token
// resolution. It carries enough information for downstream consumers to
// log or aggregate usage without querying the primary database.
type LinkAccessedEvent struct {
	Token       string `json:"token"`
	MatchID     string `json:"match_id"`
	ViewType    string `json:"view_type"`
	AccessCount uint64 `json:"access_count"`
	AccessedAt  string `json:"accessed_at"`
}
