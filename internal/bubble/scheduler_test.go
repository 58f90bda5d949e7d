package bubble

import "testing"

func TestFrameQueueDefersNestedRequests(t *testing.T) {
	q := NewFrameQueue()
	runs := 0
	var loop func()
	loop = func() {
		runs++
		q.RequestFrame(loop)
	}
	q.RequestFrame(loop)

	for i := 1; i <= 3; i++ {
		if n := q.Fire(); n != 1 {
			t.Fatalf("fire %d ran %d callbacks", i, n)
		}
		if runs != i {
			t.Fatalf("expected %d runs, got %d", i, runs)
		}
	}
	if q.Fired() != 3 {
		t.Errorf("expected 3 fired, got %d", q.Fired())
	}
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()
	ran := false
	id := q.RequestFrame(func() { ran = true })
	q.CancelFrame(id)
	q.CancelFrame(id)
	q.CancelFrame(0)
	q.CancelFrame(999)

	if q.Pending() != 0 {
		t.Errorf("expected no pending frames, got %d", q.Pending())
	}
	if q.Fire() != 0 || ran {
		t.Error("cancelled callback ran")
	}
}

func TestFrameQueueCancelDuringFire(t *testing.T) {
	q := NewFrameQueue()
	var second FrameID
	ran := false
	q.RequestFrame(func() { q.CancelFrame(second) })
	second = q.RequestFrame(func() { ran = true })

	if n := q.Fire(); n != 1 {
		t.Errorf("expected 1 callback, got %d", n)
	}
	if ran {
		t.Error("callback cancelled mid-fire still ran")
	}
}

func TestFrameQueueIDsNonZero(t *testing.T) {
	q := NewFrameQueue()
	if id := q.RequestFrame(func() {}); id == 0 {
		t.Error("frame id must not be zero")
	}
}
