package odds

// MinOdds is the floor applied to every computed odds value
const MinOdds = 1.10

// MaxOdds is the ceiling applied to every computed odds value
const MaxOdds = 10.0

// DefaultOdds is used while an option (or the whole event) has no stake yet
const DefaultOdds = 2.0

// ProtectionBase dampens early-pool volatility by padding the option amount
// in the odds denominator, avoiding division explosion when an option has
// near-zero stake.
const ProtectionBase = 100

// MaxKellyFraction caps the advisory Kelly sizing suggestion. The helper is
// advisory only and never used to reject a wager.
const MaxKellyFraction = 0.25
