package prediction

import (
	"errors"
	"testing"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/event"
)

func TestValidatePicks(t *testing.T) {
	validPicks := []Pick{
		{CompetitorID: 1, Position: 1, MaxPoints: 10},
		{CompetitorID: 4, Position: 2, MaxPoints: 10},
		{CompetitorID: 16, Position: 3, MaxPoints: 10},
	}

	tests := []struct {
		name      string
		mutate    func([]Pick)
		targetErr error
	}{
		{
			name:      "valid picks",
			mutate:    func(_ []Pick) {},
			targetErr: nil,
		},
		{
			name: "duplicate position",
			mutate: func(picks []Pick) {
				picks[1].Position = 1
			},
			targetErr: ErrDuplicatePosition,
		},
		{
			name: "duplicate competitor",
			mutate: func(picks []Pick) {
				picks[2].CompetitorID = 1
			},
			targetErr: ErrDuplicateCompetitor,
		},
		{
			name: "position below one",
			mutate: func(picks []Pick) {
				picks[0].Position = 0
			},
			targetErr: ErrInvalidPosition,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			picks := make([]Pick, len(validPicks))
			copy(picks, validPicks)
			tc.mutate(picks)

			err := ValidatePicks(picks)
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("ValidatePicks() returned %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("ValidatePicks() returned %v, want %v", err, tc.targetErr)
			}
		})
	}
}

func TestValidatePicksEmpty(t *testing.T) {
	if err := ValidatePicks(nil); !errors.Is(err, ErrNoPicks) {
		t.Fatalf("ValidatePicks(nil) returned %v, want ErrNoPicks", err)
	}
}

func TestCanEdit(t *testing.T) {
	race := time.Date(2026, time.May, 24, 13, 0, 0, 0, time.UTC)
	practice := race.Add(-48 * time.Hour)
	qualifying := race.Add(-22 * time.Hour)

	evt := event.Event{
		ID:            3,
		Name:          "Monaco Grand Prix",
		Season:        2026,
		Round:         8,
		Tier1Deadline: &practice,
		Tier2Deadline: &qualifying,
		FinalDeadline: race,
	}

	tests := []struct {
		name string
		tier LockTier
		now  time.Time
		want bool
	}{
		{"tier1 before practice", LockTierOne, practice.Add(-time.Hour), true},
		{"tier1 at practice start", LockTierOne, practice, false},
		{"tier2 before qualifying", LockTierTwo, qualifying.Add(-time.Minute), true},
		{"tier2 after qualifying", LockTierTwo, qualifying.Add(time.Minute), false},
		{"final before race", LockTierFinal, race.Add(-time.Second), true},
		{"final at race start", LockTierFinal, race, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CanEdit(evt, tc.tier, tc.now)
			if err != nil {
				t.Fatalf("CanEdit() returned %v", err)
			}
			if got != tc.want {
				t.Fatalf("CanEdit() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanEditUnscheduledSessionFallsBackToRace(t *testing.T) {
	race := time.Date(2026, time.May, 24, 13, 0, 0, 0, time.UTC)
	evt := event.Event{ID: 3, FinalDeadline: race}

	got, err := CanEdit(evt, LockTierOne, race.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CanEdit() returned %v", err)
	}
	if !got {
		t.Fatalf("CanEdit() = false before race with no session schedule, want true")
	}

	got, err = CanEdit(evt, LockTierTwo, race.Add(time.Hour))
	if err != nil {
		t.Fatalf("CanEdit() returned %v", err)
	}
	if got {
		t.Fatalf("CanEdit() = true after race start, want false")
	}
}

func TestCanEditUnknownTier(t *testing.T) {
	evt := event.Event{FinalDeadline: time.Now()}
	if _, err := CanEdit(evt, LockTier("sprint"), time.Now()); !errors.Is(err, ErrUnknownLockTier) {
		t.Fatalf("CanEdit() returned %v, want ErrUnknownLockTier", err)
	}
}

func TestParseLockTier(t *testing.T) {
	for _, raw := range []string{"tier1", "tier2", "final"} {
		tier, err := ParseLockTier(raw)
		if err != nil {
			t.Fatalf("ParseLockTier(%q) returned %v", raw, err)
		}
		if string(tier) != raw {
			t.Fatalf("ParseLockTier(%q) = %q", raw, tier)
		}
	}
	if _, err := ParseLockTier("warmup"); !errors.Is(err, ErrUnknownLockTier) {
		t.Fatalf("ParseLockTier(warmup) returned %v, want ErrUnknownLockTier", err)
	}
}

func TestPickPoints(t *testing.T) {
	tests := []struct {
		name      string
		predicted int
		actual    int
		ceiling   int
		want      int
	}{
		{"exact", 3, 3, 20, 20},
		{"one off", 2, 3, 20, 19},
		{"overshoot", 10, 3, 15, 8},
		{"undershoot", 1, 8, 10, 3},
		{"beyond ceiling", 1, 20, 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PickPoints(tc.predicted, tc.actual, tc.ceiling); got != tc.want {
				t.Fatalf("PickPoints(%d, %d, %d) = %d, want %d", tc.predicted, tc.actual, tc.ceiling, got, tc.want)
			}
		})
	}
}

func TestPointsTableCeiling(t *testing.T) {
	table := DefaultPointsTable()
	for tier, want := range map[LockTier]int{LockTierOne: 20, LockTierTwo: 15, LockTierFinal: 10} {
		got, err := table.Ceiling(tier)
		if err != nil {
			t.Fatalf("Ceiling(%s) returned %v", tier, err)
		}
		if got != want {
			t.Fatalf("Ceiling(%s) = %d, want %d", tier, got, want)
		}
	}
	if _, err := table.Ceiling(LockTier("sprint")); !errors.Is(err, ErrUnknownLockTier) {
		t.Fatalf("Ceiling(sprint) returned %v, want ErrUnknownLockTier", err)
	}
}
