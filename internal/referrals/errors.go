package referrals

import "errors"

// ErrInvalidCode is the single outcome for every validation failure
// (unknown code, disabled collector, missing name) so the public endpoint
// cannot be used to enumerate codes or probe collector state.
var ErrInvalidCode = errors.New("Invalid or inactive referral code")

var ErrUserNotFound = errors.New("User not found")

var ErrCodeAssignment = errors.New("Could not assign referral code")
