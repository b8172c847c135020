package claim

import "testing"

func TestStatusValid(t *testing.T) {
	valid := []Status{StatusPending, StatusReviewing, StatusApproved, StatusRejected, StatusInProgress, StatusCompleted}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Status(%q).Valid() = false", s)
		}
	}
	for _, s := range []Status{"", "open", "PENDING"} {
		if s.Valid() {
			t.Errorf("Status(%q).Valid() = true", s)
		}
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if !p.Valid() {
			t.Errorf("Priority(%q).Valid() = false", p)
		}
	}
	for _, p := range []Priority{"", "critical", "High"} {
		if p.Valid() {
			t.Errorf("Priority(%q).Valid() = true", p)
		}
	}
}
