// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package scoring

import (
	"math"
	"testing"

	"github.com/tomtom215/curbside/internal/models"
)

func reviewsWithRatings(ratings ...int) []models.Review {
	reviews := make([]models.Review, len(ratings))
	for i, r := range ratings {
		reviews[i] = models.Review{Rating: r}
	}
	return reviews
}

func TestComputeSpotScoreNoReviews(t *testing.T) {
	if got := ComputeSpotScore(nil); got != 0.0 {
		t.Errorf("ComputeSpotScore(nil) = %v, want exactly 0.0", got)
	}
	if got := ComputeSpotScore([]models.Review{}); got != 0.0 {
		t.Errorf("ComputeSpotScore(empty) = %v, want exactly 0.0", got)
	}
}

func TestComputeSpotScoreSingleFiveStar(t *testing.T) {
	// Raw value 5*(1+log10(2))*20 ~= 130.1, capped at 100.
	if got := ComputeSpotScore(reviewsWithRatings(5)); got != 100.0 {
		t.Errorf("one 5-star review = %v, want exactly 100.0", got)
	}
}

func TestComputeSpotScoreSingleOneStar(t *testing.T) {
	want := 1 * (1 + math.Log10(2)) * 20 // ~26.02
	got := ComputeSpotScore(reviewsWithRatings(1))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("one 1-star review = %v, want %v", got, want)
	}
}

func TestComputeSpotScoreMonotonicInCount(t *testing.T) {
	// Fixed average rating of 2, growing counts: score must be
	// non-decreasing, with shrinking marginal gains until the cap.
	var prev float64
	var prevGain float64 = math.Inf(1)
	for n := 1; n <= 30; n++ {
		ratings := make([]int, n)
		for i := range ratings {
			ratings[i] = 2
		}
		score := ComputeSpotScore(reviewsWithRatings(ratings...))
		if score < prev {
			t.Fatalf("score decreased from %v to %v at count %d", prev, score, n)
		}
		gain := score - prev
		if n > 1 && score < 100.0 && gain > prevGain+1e-9 {
			t.Fatalf("marginal gain grew from %v to %v at count %d", prevGain, gain, n)
		}
		prev, prevGain = score, gain
	}
}

func TestComputeSpotScoreCap(t *testing.T) {
	ratings := make([]int, 100)
	for i := range ratings {
		ratings[i] = 5
	}
	if got := ComputeSpotScore(reviewsWithRatings(ratings...)); got != 100.0 {
		t.Errorf("score = %v, want capped at 100.0", got)
	}
}

func TestTimeOfDayWeight(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"morning", 5},
		{"afternoon", 0},
		{"evening", -5},
		{"night", -10},
		{"", 0},
		{"midnight", 0},
	}
	for _, tt := range tests {
		if got := TimeOfDayWeight(tt.input); got != tt.want {
			t.Errorf("TimeOfDayWeight(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTourismBiasWeight(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"low", -0.4},
		{"medium", 0},
		{"high", 0.4},
		{"", 0},
		{"extreme", 0},
	}
	for _, tt := range tests {
		if got := TourismBiasWeight(tt.input); got != tt.want {
			t.Errorf("TourismBiasWeight(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCompositeScore(t *testing.T) {
	tests := []struct {
		name        string
		spot        models.ParkingSpot
		timeOfDay   string
		tourismBias string
		want        float64
	}{
		{
			name: "plain safety only",
			spot: models.ParkingSpot{SafetyScore: 70, TourismDensity: 50, MeterStatus: models.MeterWorking},
			want: 70,
		},
		{
			name:        "morning high tourism",
			spot:        models.ParkingSpot{SafetyScore: 70, TourismDensity: 50, MeterStatus: models.MeterWorking},
			timeOfDay:   "morning",
			tourismBias: "high",
			want:        70 + 50*0.4 + 5,
		},
		{
			name:      "broken meter penalized by confidence",
			spot:      models.ParkingSpot{SafetyScore: 60, TourismDensity: 0, MeterStatus: models.MeterBroken, MeterStatusConfidence: 0.8},
			timeOfDay: "night",
			want:      60 - 10 - 20*0.8,
		},
		{
			name: "unknown meter not penalized",
			spot: models.ParkingSpot{SafetyScore: 60, MeterStatus: models.MeterUnknown, MeterStatusConfidence: 0.9},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompositeScore(&tt.spot, tt.timeOfDay, tt.tourismBias)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CompositeScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreAndFilter(t *testing.T) {
	dist := func(v float64) *float64 { return &v }

	spots := []models.ParkingSpot{
		{ID: "low-safety", SafetyScore: 40, MeterStatus: models.MeterWorking},
		{ID: "far", SafetyScore: 90, MeterStatus: models.MeterWorking, DistanceToDestinationM: dist(900)},
		{ID: "good", SafetyScore: 80, MeterStatus: models.MeterWorking, DistanceToDestinationM: dist(100)},
		{ID: "better", SafetyScore: 85, MeterStatus: models.MeterWorking, DistanceToDestinationM: dist(200)},
	}

	minSafety := 50.0
	maxWalk := 500.0
	got := ScoreAndFilter(spots, Filters{MinSafety: &minSafety, MaxWalkM: &maxWalk})

	if len(got) != 2 {
		t.Fatalf("got %d spots, want 2", len(got))
	}
	if got[0].ID != "better" || got[1].ID != "good" {
		t.Errorf("order = [%s, %s], want [better, good]", got[0].ID, got[1].ID)
	}
	for _, s := range got {
		if s.CompositeScore == nil {
			t.Errorf("spot %s missing composite score", s.ID)
		}
	}
}

func TestScoreAndFilterStableTies(t *testing.T) {
	spots := []models.ParkingSpot{
		{ID: "first", SafetyScore: 70, MeterStatus: models.MeterWorking},
		{ID: "second", SafetyScore: 70, MeterStatus: models.MeterWorking},
		{ID: "third", SafetyScore: 70, MeterStatus: models.MeterWorking},
	}

	got := ScoreAndFilter(spots, Filters{})
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("tie order broken: position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestScoreAndFilterKeepsSpotsWithoutDistance(t *testing.T) {
	maxWalk := 100.0
	spots := []models.ParkingSpot{
		{ID: "no-distance", SafetyScore: 70, MeterStatus: models.MeterWorking},
	}
	got := ScoreAndFilter(spots, Filters{MaxWalkM: &maxWalk})
	if len(got) != 1 {
		t.Errorf("spot without destination distance should survive max-walk filter")
	}
}
