package odds

import (
	"math"

	"github.com/forumkit/wagerhall/internal/domain"
)

// Calculator computes preview odds from pool aggregates. It is pure: no
// side effects, no persistence. The recompute-all strategy is intentional
// (events carry at most 10 options); keeping it behind this interface lets
// an incremental implementation replace it without touching callers.
type Calculator interface {
	ForOption(totalPool, optionAmount int64) float64
	Recompute(event *domain.Event)
}

type calculator struct{}

// NewCalculator returns the pool-ratio odds calculator
func NewCalculator() Calculator {
	return calculator{}
}

// ForOption computes the odds for a single option given the event pool.
// A zero pool or zero option amount yields DefaultOdds; otherwise the raw
// pool ratio is clamped into [MinOdds, MaxOdds].
func (calculator) ForOption(totalPool, optionAmount int64) float64 {
	if totalPool == 0 || optionAmount == 0 {
		return DefaultOdds
	}
	raw := float64(totalPool) / float64(optionAmount+ProtectionBase)
	return clamp(raw, MinOdds, MaxOdds)
}

// Recompute refreshes CurrentOdds on every option of the event. All options
// are interdependent through the shared pool, so a wager on any option
// changes all of them.
func (c calculator) Recompute(event *domain.Event) {
	for i := range event.Options {
		event.Options[i].CurrentOdds = c.ForOption(event.TotalPool, event.Options[i].TotalAmount)
	}
}

// PotentialWin previews the payout for a wager at the given odds. Preview
// only: actual Wager-kind payouts use the pari-mutuel split at settlement.
func PotentialWin(wagerAmount int64, odds float64) int64 {
	return int64(math.Floor(float64(wagerAmount) * odds))
}

// NetPool returns the pool remaining after the platform fee is deducted
func NetPool(totalPool int64, feeRate float64) int64 {
	return totalPool - PlatformFee(totalPool, feeRate)
}

// PlatformFee returns the fee skimmed from the pool, floored
func PlatformFee(totalPool int64, feeRate float64) int64 {
	return int64(math.Floor(float64(totalPool) * feeRate))
}

// KellyFraction suggests a bankroll fraction for a wager at the given odds
// and subjective win probability p. Advisory only; clamped to
// [0, MaxKellyFraction] and never enforced.
func KellyFraction(odds, p float64) float64 {
	b := odds - 1
	if b <= 0 {
		return 0
	}
	f := (b*p - (1 - p)) / b
	return clamp(f, 0, MaxKellyFraction)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
