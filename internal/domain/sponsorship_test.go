package domain

import (
	"slices"
	"testing"
)

func TestSponsorshipStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to SponsorshipStatus
		want     bool
	}{
		{SponsorshipPending, SponsorshipActive, true},
		{SponsorshipPending, SponsorshipCancelled, true},
		{SponsorshipPending, SponsorshipPaused, false},
		{SponsorshipActive, SponsorshipPaused, true},
		{SponsorshipActive, SponsorshipExpired, true},
		{SponsorshipActive, SponsorshipCancelled, true},
		{SponsorshipPaused, SponsorshipActive, true},
		{SponsorshipPaused, SponsorshipCancelled, true},
		{SponsorshipPaused, SponsorshipPaused, false},
		{SponsorshipCancelled, SponsorshipActive, false},
		{SponsorshipExpired, SponsorshipActive, false},
		{SponsorshipExpired, SponsorshipCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSponsorshipStatus_TerminalAndLive(t *testing.T) {
	for _, s := range []SponsorshipStatus{SponsorshipCancelled, SponsorshipExpired} {
		if !s.IsTerminal() || s.IsLive() {
			t.Errorf("%s should be terminal and not live", s)
		}
	}
	for _, s := range LiveStatuses {
		if s.IsTerminal() || !s.IsLive() {
			t.Errorf("%s should be live and not terminal", s)
		}
	}
	if SponsorshipStatus("pending_payment").IsLive() {
		t.Error("unknown status should not be live")
	}
}

func TestAssertableFrom(t *testing.T) {
	from := AssertableFrom(SponsorshipActive)
	if !slices.Equal(from, []SponsorshipStatus{SponsorshipPending, SponsorshipPaused}) {
		t.Errorf("AssertableFrom(active) = %v", from)
	}

	from = AssertableFrom(SponsorshipCancelled)
	if !slices.Equal(from, LiveStatuses) {
		t.Errorf("AssertableFrom(cancelled) = %v", from)
	}

	for _, s := range AssertableFrom(SponsorshipExpired) {
		if s.IsTerminal() {
			t.Errorf("terminal state %s must never be overwritten", s)
		}
	}
}
