package tasks

import (
	"math"

	"github.com/desertthunder/ytpl/internal/models"
)

// YouTube Data API v3 unit costs.
//
// https://developers.google.com/youtube/v3/determine_quota_cost
const (
	searchUnitCost = 100
	createUnitCost = 50
	addUnitCost    = 50

	// DailyQuotaLimit is the default per-project daily quota.
	DailyQuotaLimit = 10000
)

// EstimateQuota projects API quota usage for a run over songCount songs.
//
// Every song costs one search. Creation and adds are charged only when
// create is true; a demo run searches but never writes. Adds cover the
// expected number of successful matches, songCount scaled by
// successRate (clamped to [0,1]) and rounded to the nearest integer.
func EstimateQuota(songCount int, successRate float64, create bool) models.QuotaEstimate {
	if songCount < 0 {
		songCount = 0
	}
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}

	estimate := models.QuotaEstimate{
		SongCount:   songCount,
		SearchUnits: songCount * searchUnitCost,
		DailyLimit:  DailyQuotaLimit,
	}

	if create {
		estimate.CreateUnits = createUnitCost

		expectedAdds := int(math.Round(float64(songCount) * successRate))
		estimate.AddUnits = expectedAdds * addUnitCost
	}

	estimate.TotalUnits = estimate.SearchUnits + estimate.CreateUnits + estimate.AddUnits
	estimate.PercentOfDailyLimit = round1(float64(estimate.TotalUnits) / DailyQuotaLimit * 100)
	estimate.FitsInOneDay = estimate.TotalUnits <= DailyQuotaLimit
	estimate.DaysNeeded = math.Max(1, round1(float64(estimate.TotalUnits)/DailyQuotaLimit))

	return estimate
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
