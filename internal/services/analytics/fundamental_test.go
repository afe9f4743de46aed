package analytics

import (
	"testing"

	"CoinFunnel/internal/domain/models"
)

func TestScoreFundamentalsStrongProfile(t *testing.T) {
	profile := &models.FundamentalProfile{
		DevActive:        true,
		TwitterFollowers: 750_000,
		FollowersKnown:   true,
	}

	res := ScoreFundamentals(profile, 80)

	if res.DevStatus != DevActive || res.DevScore != 90 {
		t.Fatalf("expected active dev 90, got %d %q", res.DevScore, res.DevStatus)
	}
	if res.CommunityStatus != CommunityHuge || res.CommunityScore != 90 {
		t.Fatalf("expected very large community 90, got %d %q", res.CommunityScore, res.CommunityStatus)
	}
	// (90*40 + 80*30 + 90*30) / 100 = 87
	if res.Composite != 87 {
		t.Fatalf("expected composite 87, got %d", res.Composite)
	}
}

func TestScoreFundamentalsInactiveDev(t *testing.T) {
	profile := &models.FundamentalProfile{
		DevActive:        false,
		TwitterFollowers: 50_000,
		FollowersKnown:   true,
	}

	res := ScoreFundamentals(profile, 50)

	if res.DevStatus != DevFailedCheck || res.DevScore != 30 {
		t.Fatalf("expected failed dev check 30, got %d %q", res.DevScore, res.DevStatus)
	}
	if res.CommunityStatus != CommunitySmall || res.CommunityScore != 40 {
		t.Fatalf("expected small community 40, got %d %q", res.CommunityScore, res.CommunityStatus)
	}
	// (30*40 + 50*30 + 40*30) / 100 = 39
	if res.Composite != 39 {
		t.Fatalf("expected composite 39, got %d", res.Composite)
	}
}

func TestScoreFundamentalsCommunityTiers(t *testing.T) {
	cases := []struct {
		followers  int64
		wantScore  int
		wantStatus string
	}{
		{750_000, 90, CommunityHuge},
		{250_000, 70, CommunityLarge},
		{100_000, 40, CommunitySmall},
		{10_000, 40, CommunitySmall},
	}

	for _, tc := range cases {
		profile := &models.FundamentalProfile{
			DevActive:        true,
			TwitterFollowers: tc.followers,
			FollowersKnown:   true,
		}
		res := ScoreFundamentals(profile, 50)
		if res.CommunityScore != tc.wantScore || res.CommunityStatus != tc.wantStatus {
			t.Fatalf("followers=%d: expected %d %q, got %d %q",
				tc.followers, tc.wantScore, tc.wantStatus, res.CommunityScore, res.CommunityStatus)
		}
	}
}

func TestScoreFundamentalsMissingProfile(t *testing.T) {
	res := ScoreFundamentals(nil, 50)

	if res.CommunityStatus != CommunityUnknown || res.CommunityScore != 0 {
		t.Fatalf("expected unavailable community, got %d %q", res.CommunityScore, res.CommunityStatus)
	}
	if res.DevStatus != DevFailedCheck {
		t.Fatalf("expected failed dev check, got %q", res.DevStatus)
	}
	// (30*40 + 50*30 + 0*30) / 100 = 27
	if res.Composite != 27 {
		t.Fatalf("expected composite 27, got %d", res.Composite)
	}
}
