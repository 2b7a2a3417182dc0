package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - read access to leave_requests
type LeaveRequestRepository interface {
	// ListApprovedCovering returns approved requests whose interval contains date.
	ListApprovedCovering(ctx context.Context, date time.Time) ([]LeaveRequest, error)
}
