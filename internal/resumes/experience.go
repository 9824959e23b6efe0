package resumes

import (
	"regexp"
	"time"
)

var fourDigitYearRE = regexp.MustCompile(`(19|20)\d{2}`)

// YearsOfExperience estimates tenure by scanning free-text start dates
// for a four-digit year and taking the earliest one found. Entries with
// no recognizable year are ignored; with none at all the estimate is 0.
// Best effort only.
func YearsOfExperience(data ResumeData, now time.Time) int {
	minYear := 0
	for _, exp := range data.Experiences {
		match := fourDigitYearRE.FindString(exp.StartDate)
		if match == "" {
			continue
		}
		year := 0
		for _, r := range match {
			year = year*10 + int(r-'0')
		}
		if minYear == 0 || year < minYear {
			minYear = year
		}
	}
	if minYear == 0 {
		return 0
	}
	years := now.Year() - minYear
	if years < 0 {
		return 0
	}
	return years
}
