package tokenstore

import "context"

// schedule arms the single background refresh timer, replacing any pending
// one. Nothing is armed without listeners or for an opaque token.
func (s *Store) schedule(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	if len(s.subscribers) == 0 {
		return
	}

	delay := RetryDelay
	if !failed {
		if s.state.Token == "" {
			return
		}
		info := parseToken(s.state.Token, s.clock.Now())
		if info == nil {
			return
		}
		delay = refreshDelay(info)
	}

	s.timerSeq++
	seq := s.timerSeq
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(seq) })
}

// fire runs a scheduled refresh unless the timer was replaced meanwhile.
func (s *Store) fire(seq uint64) {
	s.mu.Lock()
	if s.timer == nil || seq != s.timerSeq {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	_, _ = s.GetAccessTokenSilently(context.Background())
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Scheduled reports whether a background refresh is pending.
func (s *Store) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
