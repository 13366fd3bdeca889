package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMobile(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9876543210", "9876543210", true},
		{"+91-9876543210", "9876543210", true},
		{"919876543210", "9876543210", true},
		{"09876543210", "9876543210", true},
		{"98765 43210", "9876543210", true},
		{"1234567890", "", false}, // must start 6-9
		{"98765", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeMobile(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.Equal(t, c.want, got, c.in)
		}
	}
}

func TestIsValidFullname(t *testing.T) {
	assert.True(t, IsValidFullname("Ravi Kumar"))
	assert.True(t, IsValidFullname("Mary-Jane O'Connor"))
	assert.False(t, IsValidFullname("Ravi123"))
	assert.False(t, IsValidFullname(""))
}

func TestIsValidGovernmentID(t *testing.T) {
	assert.True(t, IsValidGovernmentID("PAN", "ABCDE1234F"))
	assert.False(t, IsValidGovernmentID("PAN", "ABCD51234F"))
	assert.True(t, IsValidGovernmentID("AADHAAR", "123456789012"))
	assert.False(t, IsValidGovernmentID("AADHAAR", "12345678901"))
	assert.True(t, IsValidGovernmentID("PASSPORT", "M1234567"))
	assert.True(t, IsValidGovernmentID("VOTER_ID", "ABC1234567"))
	assert.False(t, IsValidGovernmentID("RATION_CARD", "anything"))
	assert.False(t, KnownIDType("RATION_CARD"))
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	// Birthday today: the year counts.
	assert.Equal(t, 18, AgeAt(time.Date(2008, 8, 26, 0, 0, 0, 0, time.UTC), now))
	// Birthday tomorrow: not yet.
	assert.Equal(t, 17, AgeAt(time.Date(2008, 8, 27, 0, 0, 0, 0, time.UTC), now))

	// Feb 29 birth, non-leap year: the month/day comparison does not skip a
	// year the way AddDate-based arithmetic would.
	leapDOB := time.Date(2008, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 17, AgeAt(leapDOB, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, AgeAt(leapDOB, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}
