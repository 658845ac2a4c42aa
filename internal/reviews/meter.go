// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package reviews derives a spot's meter status from review text. The
// keyword lists are deliberately simple: reviews mentioning a broken
// meter correlate strongly with a handful of phrases, and a count
// comparison beats sentiment models at this scale.
package reviews

import (
	"strings"

	"github.com/tomtom215/curbside/internal/models"
)

var brokenKeywords = []string{
	"broken",
	"doesn't work",
	"doesnt work",
	"not working",
	"ate my coins",
	"out of order",
	"error",
	"malfunction",
}

var workingKeywords = []string{
	"works",
	"working fine",
	"no issues",
	"all good",
}

// ParseMeterStatus aggregates meter mentions across review texts and
// returns the majority status with a confidence of majority/total
// mentions. Reviews that mention neither state are ignored; with no
// mentions at all the status is unknown with zero confidence.
//
// A single review can count toward both sides ("was broken, now works"),
// matching how ambiguous reports should dilute confidence.
func ParseMeterStatus(texts []string) (models.MeterStatus, float64) {
	var broken, working int

	for _, txt := range texts {
		t := strings.ToLower(txt)
		if containsAny(t, brokenKeywords) {
			broken++
		}
		if containsAny(t, workingKeywords) {
			working++
		}
	}

	total := broken + working
	if total == 0 {
		return models.MeterUnknown, 0.0
	}
	if broken > working {
		return models.MeterBroken, float64(broken) / float64(total)
	}
	return models.MeterWorking, float64(working) / float64(total)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
