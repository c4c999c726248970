package domain

import (
	"errors"
	"time"
)

// ErrComplaintNotFound indicates that the complaint is not found.
var ErrComplaintNotFound = errors.New("complaint not found")

// ComplaintStatus tracks the authority's handling of a complaint.
type ComplaintStatus string

// All complaint statuses.
const (
	ComplaintPending    ComplaintStatus = "Pending"
	ComplaintInProgress ComplaintStatus = "In-progress"
	ComplaintCompleted  ComplaintStatus = "Completed"
)

// ComplaintKind separates free complaints from paid fraud reports.
type ComplaintKind string

// All complaint kinds.
const (
	KindComplaint   ComplaintKind = "complaint"
	KindFraudReport ComplaintKind = "fraud_report"
)

// TimelineEvent is one step in a complaint's handling history.
type TimelineEvent struct {
	Date    time.Time `json:"date"`
	Action  string    `json:"action"`
	Officer string    `json:"officer"`
}

// Complaint is a report filed by a wallet owner, either a plain complaint or
// a fraud report (which carries a processing fee).
type Complaint struct {
	ID                 string          `json:"id"`
	Owner              string          `json:"owner"`
	Kind               ComplaintKind   `json:"kind"`
	Against            string          `json:"against,omitempty"`
	TransactionRef     string          `json:"transaction_ref,omitempty"`
	Description        string          `json:"description"`
	ReplyFromAuthority string          `json:"reply_from_authority,omitempty"`
	Status             ComplaintStatus `json:"status"`
	Timeline           []TimelineEvent `json:"timeline"`
	CreatedAt          time.Time       `json:"created_at"`
}

// CreateComplaintParams is the input data to file a complaint or fraud report.
type CreateComplaintParams struct {
	Owner          string        `json:"owner"`
	Kind           ComplaintKind `json:"kind"`
	Against        string        `json:"against"`
	TransactionRef string        `json:"transaction_ref"`
	Description    string        `json:"description"`
}
