package domain

import "github.com/jonboulle/clockwork"

// clock stamps Analysis.GeneratedAt. Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Analyze derives every region, ranks the result, and stamps it with the
// current time.
func Analyze(regions []Region, focusRegion string) *Analysis {
	profiles := DeriveAll(regions)
	return &Analysis{
		Profiles:    profiles,
		Ranking:     Rank(profiles),
		FocusRegion: focusRegion,
		GeneratedAt: clock.Now().UTC(),
	}
}
