package state

import (
	"sync"
	"testing"
)

func TestStoreIsolation(t *testing.T) {
	s := NewStore()

	s.Begin(1, StateAwaitingBenchPress)
	s.Begin(2, StateAwaitingName)

	if got := s.State(1); got != StateAwaitingBenchPress {
		t.Errorf("user 1 state = %q, want %q", got, StateAwaitingBenchPress)
	}
	if got := s.State(2); got != StateAwaitingName {
		t.Errorf("user 2 state = %q, want %q", got, StateAwaitingName)
	}

	s.Clear(1)
	if got := s.State(1); got != StateIdle {
		t.Errorf("user 1 state after clear = %q, want idle", got)
	}
	if got := s.State(2); got != StateAwaitingName {
		t.Errorf("user 2 state touched by clear of user 1: %q", got)
	}
}

func TestStoreConcurrentUsers(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			s.Begin(chatID, StateAwaitingBenchPress)
			s.Update(chatID, func(ctx *UserContext) {
				ctx.BenchPress = float64(chatID)
			})
			s.Set(chatID, StateAwaitingFormatSelection)
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		ctx := s.Get(int64(i))
		if ctx.State != StateAwaitingFormatSelection {
			t.Fatalf("user %d state = %q, want %q", i, ctx.State, StateAwaitingFormatSelection)
		}
		if ctx.BenchPress != float64(i) {
			t.Fatalf("user %d bench press = %v, want %v", i, ctx.BenchPress, float64(i))
		}
	}
}

func TestBeginResetsPendingValues(t *testing.T) {
	s := NewStore()

	// Пользователь бросил составление программы на середине
	s.Begin(7, StateAwaitingBenchPress)
	s.Update(7, func(ctx *UserContext) {
		ctx.CycleID = "2"
		ctx.BenchPress = 120
	})

	// ...и открыл анкету: значения прежнего потока не должны протечь
	s.Begin(7, StateAwaitingMetricsWeight)

	ctx := s.Get(7)
	if ctx.State != StateAwaitingMetricsWeight {
		t.Errorf("state = %q, want %q", ctx.State, StateAwaitingMetricsWeight)
	}
	if ctx.CycleID != "" || ctx.BenchPress != 0 {
		t.Errorf("pending values leaked across flows: %+v", ctx)
	}
}

func TestUpdateKeepsAccumulatedValues(t *testing.T) {
	s := NewStore()

	s.Begin(3, StateAwaitingCycleSelection)
	s.Update(3, func(ctx *UserContext) {
		ctx.CycleID = "1"
		ctx.State = StateAwaitingBenchPress
	})
	s.Update(3, func(ctx *UserContext) {
		ctx.BenchPress = 95.5
		ctx.State = StateAwaitingFormatSelection
	})

	ctx := s.Get(3)
	if ctx.CycleID != "1" {
		t.Errorf("CycleID = %q, want %q", ctx.CycleID, "1")
	}
	if ctx.BenchPress != 95.5 {
		t.Errorf("BenchPress = %v, want 95.5", ctx.BenchPress)
	}
}
