package tracker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisabledTrackerIsNoop(t *testing.T) {
	tr := New("", "test")
	if tr.Enabled() {
		t.Fatal("tracker without DSN must be disabled")
	}
	tr.CaptureException(context.Background(), "/api/v1/startup/create", errors.New("boom"))
	tr.Flush(time.Millisecond)

	var nilTracker *Tracker
	if nilTracker.Enabled() {
		t.Fatal("nil tracker must be disabled")
	}
	nilTracker.CaptureException(context.Background(), "/", errors.New("boom"))
}
