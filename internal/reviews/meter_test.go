// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package reviews

import (
	"math"
	"testing"

	"github.com/tomtom215/curbside/internal/models"
)

func TestParseMeterStatus(t *testing.T) {
	tests := []struct {
		name           string
		texts          []string
		wantStatus     models.MeterStatus
		wantConfidence float64
	}{
		{
			name:           "no reviews",
			texts:          nil,
			wantStatus:     models.MeterUnknown,
			wantConfidence: 0.0,
		},
		{
			name:           "no meter mentions",
			texts:          []string{"great spot", "nice and close"},
			wantStatus:     models.MeterUnknown,
			wantConfidence: 0.0,
		},
		{
			name:           "broken majority",
			texts:          []string{"broken", "doesn't work", "works fine"},
			wantStatus:     models.MeterBroken,
			wantConfidence: 2.0 / 3.0,
		},
		{
			name:           "working majority",
			texts:          []string{"works great", "no issues at all", "meter is broken"},
			wantStatus:     models.MeterWorking,
			wantConfidence: 2.0 / 3.0,
		},
		{
			name:           "tie resolves to working",
			texts:          []string{"out of order", "all good"},
			wantStatus:     models.MeterWorking,
			wantConfidence: 0.5,
		},
		{
			name:           "case insensitive",
			texts:          []string{"METER ATE MY COINS"},
			wantStatus:     models.MeterBroken,
			wantConfidence: 1.0,
		},
		{
			name:           "apostrophe-free variant",
			texts:          []string{"it doesnt work"},
			wantStatus:     models.MeterBroken,
			wantConfidence: 1.0,
		},
		{
			name:           "malfunction keyword",
			texts:          []string{"meter malfunction again"},
			wantStatus:     models.MeterBroken,
			wantConfidence: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, confidence := ParseMeterStatus(tt.texts)
			if status != tt.wantStatus {
				t.Errorf("status = %v, want %v", status, tt.wantStatus)
			}
			if math.Abs(confidence-tt.wantConfidence) > 1e-9 {
				t.Errorf("confidence = %v, want %v", confidence, tt.wantConfidence)
			}
		})
	}
}

func TestParseMeterStatusAmbiguousReview(t *testing.T) {
	// One review matching both sides counts once per side.
	status, confidence := ParseMeterStatus([]string{"was broken last week but works now"})
	if status != models.MeterWorking {
		t.Errorf("status = %v, want working (tie goes to working)", status)
	}
	if confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", confidence)
	}
}
