package analytics

import (
	"math"

	"CoinFunnel/internal/domain/models"
)

// Developer and community status labels.
const (
	DevActive        = "Active"
	DevFailedCheck   = "Failed-check"
	CommunityHuge    = "Very Large"
	CommunityLarge   = "Large"
	CommunitySmall   = "Small"
	CommunityUnknown = "Unavailable"
)

const (
	devActiveScore   = 90
	devInactiveScore = 30

	communityHugeMin    = 500_000
	communityLargeMin   = 100_000
	communityHugeScore  = 90
	communityLargeScore = 70
	communitySmallScore = 40

	devWeight       = 40
	patternWeight   = 30
	communityWeight = 30
)

// FundamentalResult holds the weighted fundamental composite.
type FundamentalResult struct {
	Composite       int
	DevScore        int
	CommunityScore  int
	DevStatus       string
	CommunityStatus string
}

// ScoreFundamentals combines developer activity, community size, and price
// pattern quality into a 0-100 composite.
func ScoreFundamentals(profile *models.FundamentalProfile, patternScore int) FundamentalResult {
	res := FundamentalResult{
		DevScore:  devInactiveScore,
		DevStatus: DevFailedCheck,
	}

	if profile != nil && profile.DevActive {
		res.DevScore = devActiveScore
		res.DevStatus = DevActive
	}

	switch {
	case profile == nil || !profile.FollowersKnown:
		res.CommunityScore = 0
		res.CommunityStatus = CommunityUnknown
	case profile.TwitterFollowers > communityHugeMin:
		res.CommunityScore = communityHugeScore
		res.CommunityStatus = CommunityHuge
	case profile.TwitterFollowers > communityLargeMin:
		res.CommunityScore = communityLargeScore
		res.CommunityStatus = CommunityLarge
	default:
		res.CommunityScore = communitySmallScore
		res.CommunityStatus = CommunitySmall
	}

	weighted := float64(res.DevScore*devWeight+patternScore*patternWeight+res.CommunityScore*communityWeight) / 100.0
	res.Composite = int(math.Round(weighted))
	if res.Composite < 0 {
		res.Composite = 0
	}
	if res.Composite > 100 {
		res.Composite = 100
	}
	return res
}
