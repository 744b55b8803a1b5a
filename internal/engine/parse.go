package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCategory matches user input case-insensitively against the category
// names, also accepting a few short forms.
func ParseCategory(input string) (Category, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultCategory, nil
	case "chores", "household":
		return CategoryHouseholdChores, nil
	case "selfcare", "self care":
		return CategorySelfCare, nil
	case "hygiene":
		return CategoryPersonalHygiene, nil
	case "passion", "project":
		return CategoryPassionProject, nil
	}
	for _, c := range Categories {
		if strings.ToLower(string(c)) == s {
			return c, nil
		}
	}
	return "", ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", input)}
}

// ParseFrequency accepts a day count (1, 2, 3, 7, 30) or a name.
func ParseFrequency(input string) (Frequency, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "", "daily", "day":
		return FrequencyDaily, nil
	case "other", "every-other-day":
		return FrequencyEveryOtherDay, nil
	case "weekly", "week":
		return FrequencyWeekly, nil
	case "monthly", "month":
		return FrequencyMonthly, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil && Frequency(n).IsValid() {
		return Frequency(n), nil
	}
	return 0, ValidationError{Field: "frequency", Reason: fmt.Sprintf("invalid frequency %q (want 1, 2, 3, 7 or 30)", input)}
}

func parseStoredCategory(s string) Category {
	c := Category(s)
	if c.IsValid() {
		return c
	}
	return DefaultCategory
}
