package entity

import "time"

// OutcomeStatus is the terminal state of one recipient's dispatch in a batch run.
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// DispatchOutcome records what happened to one recipient during one batch
// tick. Created exactly once per recipient per run and immutable afterwards;
// persisted best-effort through the analytics sink.
type DispatchOutcome struct {
	Recipient        string        `bson:"recipient" json:"recipient"`
	Status           OutcomeStatus `bson:"status" json:"status"`
	Frequency        Frequency     `bson:"frequency" json:"frequency"`
	FollowingsCount  int           `bson:"followings_count" json:"followings_count"`
	ContentsCount    int           `bson:"contents_count" json:"contents_count"`
	Platforms        []string      `bson:"platforms" json:"platforms"`
	Error            string        `bson:"error,omitempty" json:"error,omitempty"`
	ProcessingTimeMs int64         `bson:"processing_time_ms" json:"processing_time_ms"`
	RecordedAt       time.Time     `bson:"recorded_at" json:"recorded_at"`
}
