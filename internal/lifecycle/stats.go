package lifecycle

import (
	"github.com/workpulse/daily-task-tracker/internal/models"
)

// Stats are the aggregate counters over a set of day groups. The
// aggregation is a pure reduction: no side effects, order-independent,
// and additive across concatenation of inputs.
type Stats struct {
	Total                int `json:"total"`
	Completed            int `json:"completed"`
	InProgress           int `json:"in_progress"`
	Reviewed             int `json:"reviewed"`
	Shifted              int `json:"shifted"`
	ApprovedAndSubmitted int `json:"approved_and_submitted"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Total:                s.Total + o.Total,
		Completed:            s.Completed + o.Completed,
		InProgress:           s.InProgress + o.InProgress,
		Reviewed:             s.Reviewed + o.Reviewed,
		Shifted:              s.Shifted + o.Shifted,
		ApprovedAndSubmitted: s.ApprovedAndSubmitted + o.ApprovedAndSubmitted,
	}
}

// CompletionRate is completed/total, and 0 for an empty set rather
// than NaN.
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// ReviewRate is reviewed/total, 0 for an empty set.
func (s Stats) ReviewRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Reviewed) / float64(s.Total)
}

// Aggregate reduces day groups into Stats.
func Aggregate(groups []models.DailyTask) Stats {
	var s Stats
	for _, dt := range groups {
		for _, t := range dt.Tasks {
			s.Total++
			switch t.Status {
			case models.TaskStatusCompleted:
				s.Completed++
			case models.TaskStatusInProgress:
				s.InProgress++
			}
			if t.ReviewStatus != models.ReviewStatusPending && t.ReviewStatus != "" {
				s.Reviewed++
			}
			if t.IsShifted {
				s.Shifted++
			}
			if t.Status == models.TaskStatusCompleted &&
				t.ReviewStatus == models.ReviewStatusApproved &&
				dt.Submitted {
				s.ApprovedAndSubmitted++
			}
		}
	}
	return s
}
