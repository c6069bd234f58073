package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/groceryai/backend/internal/domain"
)

// Days-remaining thresholds for the expiry verdict
const (
	expiredBelowDays = 0 // days < 0 is expired
	expiringSoonDays = 3 // 0..3 days is expiring soon
	secondsPerDay    = 24 * 60 * 60
	twoDigitYearBase = 2000
)

// labelDateLayouts are tried against the text captured after an expiry label
var labelDateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
}

// ExpiryAssessor classifies expiry dates relative to an evaluation date
type ExpiryAssessor struct{}

// NewExpiryAssessor creates a new expiry assessor
func NewExpiryAssessor() *ExpiryAssessor {
	return &ExpiryAssessor{}
}

// StatusForDays maps days remaining to an expiry status
func StatusForDays(days int) domain.ExpiryStatus {
	switch {
	case days < expiredBelowDays:
		return domain.ExpiryExpired
	case days <= expiringSoonDays:
		return domain.ExpiryExpiringSoon
	default:
		return domain.ExpiryOkay
	}
}

// Assess computes days remaining in calendar days, using the location of now
func (a *ExpiryAssessor) Assess(expiry, now time.Time) domain.ExpiryAssessment {
	days := daysBetween(now, expiry)
	return domain.ExpiryAssessment{
		ExpiryDate:    expiry.Format(domain.DateLayout),
		DaysRemaining: days,
		Status:        StatusForDays(days),
	}
}

// daysBetween returns the number of calendar days from a to b
func daysBetween(a, b time.Time) int {
	startY, startM, startD := a.Date()
	endY, endM, endD := b.In(a.Location()).Date()
	start := time.Date(startY, startM, startD, 0, 0, 0, 0, time.UTC)
	end := time.Date(endY, endM, endD, 0, 0, 0, 0, time.UTC)
	return int(end.Unix()/secondsPerDay - start.Unix()/secondsPerDay)
}

// ParseDate turns an extracted date into a calendar date in loc.
// Month-name matches carry only the month abbreviation and never parse.
func (a *ExpiryAssessor) ParseDate(m domain.DateMatch, loc *time.Location) (time.Time, bool) {
	switch m.Family {
	case domain.DateFamilyDayMonthYear:
		parts := strings.Fields(m.Value)
		if len(parts) != 3 {
			return time.Time{}, false
		}
		return buildDate(parts[2], parts[1], parts[0], loc)
	case domain.DateFamilyYearFirst:
		parts := strings.Fields(m.Value)
		if len(parts) != 3 {
			return time.Time{}, false
		}
		return buildDate(parts[0], parts[1], parts[2], loc)
	case domain.DateFamilyLabel:
		tail := m.Value
		if idx := labelPrefixEnd(tail); idx > 0 {
			tail = tail[idx:]
		}
		// "EXPIRY" is consumed as "EXP" by the leftmost alternative
		if strings.HasPrefix(strings.ToUpper(tail), "IRY") {
			tail = tail[len("IRY"):]
		}
		tail = strings.TrimLeft(tail, ": \t")
		tail = strings.TrimSpace(strings.ReplaceAll(tail, ",", ""))
		for _, layout := range labelDateLayouts {
			if t, err := time.ParseInLocation(layout, tail, loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// labelPrefixEnd returns the offset of the captured tail in a label match ("LABEL tail")
func labelPrefixEnd(value string) int {
	upper := strings.ToUpper(value)
	for _, label := range []string{"BEST BEFORE ", "USE BY ", "EXP "} {
		if strings.HasPrefix(upper, label) {
			return len(label)
		}
	}
	return 0
}

// buildDate validates numeric components and rejects impossible dates such as 31/02
func buildDate(year, month, day string, loc *time.Location) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	if len(year) == 2 {
		y += twoDigitYearBase
	} else if len(year) == 3 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}
