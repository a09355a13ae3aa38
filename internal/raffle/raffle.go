// Package raffle keeps the participants and winners of a drawing session run
// on a wheel: draw a random participant, confirm the winner, and the winner
// leaves the wheel.
package raffle

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
)

var ErrNoParticipants = errors.New("no participants")

// ExampleNames fills an empty session for a quick try.
var ExampleNames = []string{
	"Ana García", "Bruno Díaz", "Carla Méndez", "Diego Torres", "Elena Ruiz",
	"Fernando López", "Gabriela Castro", "Héctor Molina", "Isabel Navarro", "Jorge Ramos",
}

// Session is a drawing session. The zero value is an empty session.
type Session struct {
	participants []string
	winners      []string
	pending      string // drawn, not yet confirmed
}

// NewSession starts a session with names, trimmed and with blanks dropped.
func NewSession(names []string) *Session {
	return &Session{participants: clean(names)}
}

func clean(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Participants returns the names still on the wheel.
func (s *Session) Participants() []string { return slices.Clone(s.participants) }

// Winners returns confirmed winners in the order they were confirmed.
func (s *Session) Winners() []string { return slices.Clone(s.winners) }

// Pending returns the drawn but unconfirmed winner, if any.
func (s *Session) Pending() (string, bool) { return s.pending, s.pending != "" }

// Draw picks the index of a random participant to spin to.
func (s *Session) Draw(r *rand.Rand) (int, error) {
	if len(s.participants) == 0 {
		return 0, ErrNoParticipants
	}
	s.pending = ""
	if r == nil {
		return rand.IntN(len(s.participants)), nil
	}
	return r.IntN(len(s.participants)), nil
}

// Land records where the wheel stopped and returns that participant.
func (s *Session) Land(index int) (string, bool) {
	if index < 0 || index >= len(s.participants) {
		s.pending = ""
		return "", false
	}
	s.pending = s.participants[index]
	return s.pending, true
}

// Confirm accepts the pending winner: it joins the winners once and every
// entry with that name leaves the wheel.
func (s *Session) Confirm() (string, bool) {
	w := s.pending
	if w == "" {
		return "", false
	}
	s.pending = ""
	if !slices.Contains(s.winners, w) {
		s.winners = append(s.winners, w)
	}
	s.participants = slices.DeleteFunc(s.participants, func(p string) bool { return p == w })
	return w, true
}

// Dismiss drops the pending winner, who stays on the wheel.
func (s *Session) Dismiss() { s.pending = "" }

// Add appends participants.
func (s *Session) Add(names ...string) {
	s.participants = append(s.participants, clean(names)...)
}

// Replace swaps the participant list, keeping the winners.
func (s *Session) Replace(names []string) {
	s.participants = clean(names)
	s.pending = ""
}

// Clear removes every participant.
func (s *Session) Clear() {
	s.participants = nil
	s.pending = ""
}

// Search returns participants and winners containing term, case-insensitively.
func (s *Session) Search(term string) (participants, winners []string) {
	term = strings.ToLower(strings.TrimSpace(term))
	match := func(list []string) []string {
		var out []string
		for _, n := range list {
			if strings.Contains(strings.ToLower(n), term) {
				out = append(out, n)
			}
		}
		return out
	}
	return match(s.participants), match(s.winners)
}
