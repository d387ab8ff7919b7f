package service

import (
	"strconv"
	"strings"

	"github.com/affcms/festival-api/internal/models"
	appErrors "github.com/affcms/festival-api/pkg/errors"
)

const slotConflictSuggestion = "please choose a different time slot"

// parseClock converts an "HH:MM" 24-hour string to minutes since midnight.
func parseClock(value string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return 0, false
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// rangesOverlap reports whether two end-exclusive minute ranges share any
// instant: [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1. Touching
// ranges (e1 == s2) do not conflict.
func rangesOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// checkSlotOverlap validates the candidate time range and rejects it when it
// overlaps any sibling slot on the same screen. The slot identified by
// excludeID (the one being updated) is left out of the sibling set. A
// candidate without an end time has no interval yet and cannot conflict;
// likewise open-ended siblings are skipped.
func checkSlotOverlap(startTime, endTime string, siblings []models.Slot, excludeID string) error {
	start, ok := parseClock(startTime)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "invalid startTime format (use HH:MM)")
	}
	if endTime == "" {
		return nil
	}
	end, ok := parseClock(endTime)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "invalid endTime format (use HH:MM)")
	}
	if end <= start {
		return appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
	}

	for i := range siblings {
		sibling := &siblings[i]
		if sibling.ID == excludeID || sibling.EndTime == "" {
			continue
		}
		sibStart, ok := parseClock(sibling.StartTime)
		if !ok {
			continue
		}
		sibEnd, ok := parseClock(sibling.EndTime)
		if !ok {
			continue
		}
		if rangesOverlap(start, end, sibStart, sibEnd) {
			return appErrors.WithSuggestion(
				appErrors.Clone(appErrors.ErrConflict, "time slot conflicts with an existing session on this screen"),
				slotConflictSuggestion,
			)
		}
	}
	return nil
}
