package domain

import "time"

// DateLayout is the day key used for ledger partitioning, always UTC.
const DateLayout = "2006-01-02"

// Today returns the current UTC day key.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// ValidDate reports whether s is a well-formed day key.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Target is a user's persisted daily calorie target. One active value per
// user, last write wins.
type Target struct {
	UserID     string  `json:"user_id"`
	TargetKcal float64 `json:"target_kcal"`
}

// ValidateTarget enforces the caller-side contract: the tracker itself
// stores whatever it is given, so non-positive values must be rejected
// before reaching it.
func ValidateTarget(kcal float64) error {
	if kcal <= 0 {
		return ErrInvalidTarget
	}
	return nil
}
