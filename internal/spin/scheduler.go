package spin

import (
	"errors"
	"time"
)

type timer struct {
	seq uint64
	at  time.Time
	fn  func() error
}

// Scheduler holds one-shot timers that fire when the owner pumps it from its
// frame callback. Timers run on the pumping goroutine, in deadline order, and
// ties keep scheduling order. It is not safe for concurrent use.
type Scheduler struct {
	timers []*timer
	seq    uint64
}

// At schedules fn to run on the first Fire at or after t.
func (s *Scheduler) At(t time.Time, fn func() error) {
	s.seq++
	s.timers = append(s.timers, &timer{seq: s.seq, at: t, fn: fn})
}

// Fire runs every timer due at now, including timers scheduled by the
// callbacks themselves if they are already due. Errors are joined.
func (s *Scheduler) Fire(now time.Time) error {
	var errs []error
	for {
		i := s.nextDue(now)
		if i < 0 {
			break
		}
		t := s.timers[i]
		s.timers = append(s.timers[:i], s.timers[i+1:]...)
		if err := t.fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) nextDue(now time.Time) int {
	best := -1
	for i, t := range s.timers {
		if t.at.After(now) {
			continue
		}
		if best < 0 || t.at.Before(s.timers[best].at) ||
			(t.at.Equal(s.timers[best].at) && t.seq < s.timers[best].seq) {
			best = i
		}
	}
	return best
}

// CancelAll drops every pending timer and returns how many were dropped.
func (s *Scheduler) CancelAll() int {
	n := len(s.timers)
	s.timers = nil
	return n
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int { return len(s.timers) }
