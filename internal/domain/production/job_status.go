package production

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusCreated    JobStatus = "created"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusFinished   JobStatus = "finished"
	JobStatusInvoiced   JobStatus = "invoiced"
	JobStatusCancelled  JobStatus = "cancelled"
	JobStatusOnHold     JobStatus = "on_hold"
)

// IsValid checks if the status is valid
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusCreated, JobStatusInProgress, JobStatusFinished,
		JobStatusInvoiced, JobStatusCancelled, JobStatusOnHold:
		return true
	}
	return false
}

// IsTerminal returns true if no further status change is permitted directly
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusInvoiced || s == JobStatusCancelled
}

// String returns the string representation
func (s JobStatus) String() string {
	return string(s)
}

// forward edges of the working lifecycle; on_hold and cancelled are handled separately
var jobForward = map[JobStatus][]JobStatus{
	JobStatusCreated:    {JobStatusInProgress},
	JobStatusInProgress: {JobStatusFinished},
}

// canMoveForward reports whether from → to is a lifecycle step
func canMoveForward(from, to JobStatus) bool {
	for _, next := range jobForward[from] {
		if next == to {
			return true
		}
	}
	return false
}
