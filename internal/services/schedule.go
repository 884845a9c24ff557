package services

import (
	"time"

	"ajo-pools/internal/models"
)

// ContributionGracePeriod is how long before a payout a contribution counts as on time
const ContributionGracePeriod = 3 * 24 * time.Hour

// AdvancePayoutDate moves date forward by the given number of frequency periods
func AdvancePayoutDate(date time.Time, frequency models.PoolFrequency, periods int) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return date.AddDate(0, 0, periods)
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7*periods)
	case models.FrequencyBiweekly:
		return date.AddDate(0, 0, 14*periods)
	case models.FrequencyMonthly:
		return date.AddDate(0, periods, 0)
	}
	return date
}

// PayoutDateForPosition is the payout date of the member at position,
// one period after the start for position 1.
func PayoutDateForPosition(start time.Time, frequency models.PoolFrequency, position int) time.Time {
	if position < 1 {
		position = 1
	}
	return AdvancePayoutDate(start, frequency, position)
}

// IsContributionLate reports whether now is past the payout deadline minus the grace period
func IsContributionLate(nextPayoutDate, now time.Time) bool {
	return now.After(nextPayoutDate.Add(-ContributionGracePeriod))
}
