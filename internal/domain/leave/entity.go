package leave

import (
	"errors"
	"strings"
	"time"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusWaitingApproval LeaveRequestStatus = "waiting_approval"
	LeaveRequestStatusApproved        LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected        LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled       LeaveRequestStatus = "cancelled"
)

var ErrInvalidLeaveStatus = errors.New("invalid leave request status")

// ParseLeaveRequestStatus accepts any casing and space or hyphen separators,
// e.g. "Approved" or "Waiting Approval".
func ParseLeaveRequestStatus(s string) (LeaveRequestStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	switch status := LeaveRequestStatus(normalized); status {
	case LeaveRequestStatusWaitingApproval, LeaveRequestStatusApproved,
		LeaveRequestStatusRejected, LeaveRequestStatusCancelled:
		return status, nil
	}
	return "", ErrInvalidLeaveStatus
}

// LeaveRequest is read-only to the attendance core. StartDate and EndDate
// bound an inclusive interval of calendar dates.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     LeaveRequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether date falls inside the request's interval.
func (r LeaveRequest) Covers(date time.Time) bool {
	d := date.Format("2006-01-02")
	return r.StartDate.Format("2006-01-02") <= d && d <= r.EndDate.Format("2006-01-02")
}

// IsApproved checks if the request may produce Leave attendance
func (r LeaveRequest) IsApproved() bool {
	return r.Status == LeaveRequestStatusApproved
}
