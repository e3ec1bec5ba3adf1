// Package events carries summary refresh notifications between the API and
// the summary worker.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// SummaryRefresh asks the worker to rebuild the materialized totals of a cycle.
type SummaryRefresh struct {
	CycleID   string    `json:"cycle_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSummaryRefresh stamps a refresh request with the current time.
func NewSummaryRefresh(cycleID, reason string) *SummaryRefresh {
	return &SummaryRefresh{CycleID: cycleID, Reason: reason, Timestamp: time.Now().UTC()}
}

func (m *SummaryRefresh) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryRefreshFromJSON decodes a message body.
func SummaryRefreshFromJSON(data []byte) (*SummaryRefresh, error) {
	var msg SummaryRefresh
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Publisher announces that the records of some cycles changed.
type Publisher interface {
	PublishSummaryRefresh(ctx context.Context, reason string, cycleIDs ...string) error
}

// Noop drops every message. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishSummaryRefresh(context.Context, string, ...string) error { return nil }
