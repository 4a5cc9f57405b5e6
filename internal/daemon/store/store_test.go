package store

import (
	"sync"
	"testing"
	"time"

	"github.com/grovetools/steam-shortcut-sync/internal/daemon/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RunningFlag(t *testing.T) {
	s := New()
	assert.True(t, s.Running())

	var wg sync.WaitGroup
	var transitions int32
	var mu sync.Mutex
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Stop() {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.False(t, s.Running())
	assert.Equal(t, int32(1), transitions)
}

func TestStore_RecordPass(t *testing.T) {
	s := New()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.RecordPass(Pass{
		Trigger: Trigger{Source: "watcher", At: time.Now()},
		Report:  syncer.Report{Added: 2},
	})
	s.RecordPass(Pass{
		Trigger: Trigger{Source: "socket"},
		Error:   "POST_STEP_FAILED",
	})

	st := s.Get()
	assert.Equal(t, 2, st.Passes)
	assert.Equal(t, 1, st.Failed)
	require.NotNil(t, st.LastPass)
	assert.Equal(t, "socket", st.LastPass.Trigger.Source)

	u := <-ch
	assert.Equal(t, UpdatePass, u.Type)
	assert.Equal(t, "watcher", u.Source)
	require.NotNil(t, u.Pass)
	assert.Equal(t, 2, u.Pass.Report.Added)
}

func TestStore_RecordCoalesced(t *testing.T) {
	s := New()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.RecordCoalesced(Trigger{Source: "watcher"})
	s.RecordCoalesced(Trigger{Source: "socket"})
	assert.Equal(t, 2, s.Get().Coalesced)

	u := <-ch
	assert.Equal(t, Update{Type: UpdateCoalesced, Source: "watcher"}, u)
}

func TestStore_StopNotifiesSubscribers(t *testing.T) {
	s := New()
	ch := s.Subscribe()

	s.Stop()
	s.Stop()

	assert.Equal(t, UpdateStopped, (<-ch).Type)
	select {
	case u := <-ch:
		t.Fatalf("unexpected second update: %v", u)
	default:
	}

	s.Unsubscribe(ch)
	s.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := New()
	s.RecordPass(Pass{Trigger: Trigger{Source: "startup"}})

	st := s.Get()
	st.LastPass.Trigger.Source = "mutated"
	assert.Equal(t, "startup", s.Get().LastPass.Trigger.Source)
}
