package logging

import "strings"

// ProgressSampler throttles per-row progress logs to one line every interval
// rows, plus one whenever the phase changes.
type ProgressSampler struct {
	interval  int
	lastPhase string
	lastMark  int
}

// NewProgressSampler constructs a sampler that emits every interval rows
// (default 1000).
func NewProgressSampler(interval int) *ProgressSampler {
	if interval <= 0 {
		interval = 1000
	}
	return &ProgressSampler{interval: interval, lastMark: -1}
}

// ShouldLog reports whether progress at count rows into phase should be logged.
func (s *ProgressSampler) ShouldLog(phase string, count int) bool {
	if s == nil {
		return true
	}
	phase = strings.TrimSpace(phase)
	emit := false
	if phase != "" && phase != s.lastPhase {
		s.lastPhase = phase
		s.lastMark = -1
		emit = true
	}
	if count >= 0 {
		mark := count / s.interval
		if mark > s.lastMark {
			s.lastMark = mark
			if count > 0 {
				emit = true
			}
		}
	}
	return emit
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastPhase = ""
	s.lastMark = -1
}
