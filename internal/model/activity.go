package model

import "time"

// Action names a user-triggered dashboard operation.
type Action string

const (
	ActionUpload   Action = "upload"
	ActionApply    Action = "apply"
	ActionRollback Action = "rollback"
	ActionBackup   Action = "backup"
)

// ActivityStatus is the outcome of an action.
type ActivityStatus string

const (
	ActivitySucceeded ActivityStatus = "succeeded"
	ActivityFailed    ActivityStatus = "failed"
	// ActivityRejected means the action was stopped locally, before any API call.
	ActivityRejected ActivityStatus = "rejected"
)

// Activity is a recorded outcome of a user action.
type Activity struct {
	ID        string         `json:"id"`
	Action    Action         `json:"action"`
	Status    ActivityStatus `json:"status"`
	Detail    string         `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ActivityResponse is a page of recent activity, newest first.
type ActivityResponse struct {
	Activities []Activity `json:"activities"`
	Count      int        `json:"count"`
}
