package engine

import (
	"testing"
	"time"
)

func TestLoopSchedulerDelivers(t *testing.T) {
	s := NewLoopScheduler(4)
	defer s.Close()
	ran := false
	s.AfterFunc(time.Millisecond, func() { ran = true })
	select {
	case f := <-s.C():
		f()
	case <-time.After(2 * time.Second):
		t.Fatalf("callback was not delivered")
	}
	if !ran {
		t.Fatalf("expected callback to run")
	}
}

func TestLoopSchedulerCancel(t *testing.T) {
	s := NewLoopScheduler(4)
	defer s.Close()
	ran := false
	cancel := s.AfterFunc(time.Millisecond, func() { ran = true })
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case f := <-s.C():
		f()
	default:
	}
	if ran {
		t.Fatalf("expected cancelled callback not to run")
	}
}
