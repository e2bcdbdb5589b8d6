package app

import (
	"errors"
	"testing"
)

func TestSweepExpiredSubscriptions(t *testing.T) {
	subs := &stubSubRepo{deactivated: 3}
	jobs := NewJobs(subs, discardLogger())

	jobs.SweepExpiredSubscriptions()
	if subs.deactivateCall != 1 {
		t.Fatalf("expected 1 sweep call, got %d", subs.deactivateCall)
	}
}

func TestSweepExpiredSubscriptionsToleratesStoreError(t *testing.T) {
	subs := &stubSubRepo{deactivateErr: errors.New("db down")}
	jobs := NewJobs(subs, discardLogger())

	// Must not panic; the scheduler keeps running after a failed sweep.
	jobs.SweepExpiredSubscriptions()
	if subs.deactivateCall != 1 {
		t.Fatalf("expected 1 sweep call, got %d", subs.deactivateCall)
	}
}
