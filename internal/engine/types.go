package engine

import "strconv"

type Category string

const (
	CategoryHobbies         Category = "Hobbies"
	CategoryFinance         Category = "Finance"
	CategoryHabits          Category = "Habits"
	CategorySleep           Category = "Sleep"
	CategoryHydration       Category = "Hydration"
	CategoryHouseholdChores Category = "Household Chores"
	CategorySelfCare        Category = "Self-care"
	CategoryWork            Category = "Work"
	CategoryNutrition       Category = "Nutrition"
	CategoryPersonalHygiene Category = "Personal Hygiene"
	CategoryCreative        Category = "Creative"
	CategoryPassionProject  Category = "Passion Project"
	CategoryDiscipline      Category = "Discipline"
	CategoryMindfulness     Category = "Mindfulness"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHobbies, CategoryFinance, CategoryHabits, CategorySleep, CategoryHydration,
	CategoryHouseholdChores, CategorySelfCare, CategoryWork, CategoryNutrition,
	CategoryPersonalHygiene, CategoryCreative, CategoryPassionProject, CategoryDiscipline,
	CategoryMindfulness,
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// DefaultCategory is used when a stored category is missing/invalid.
const DefaultCategory Category = CategoryHabits

// Frequency is the default cadence of a task, in days.
type Frequency int

const (
	FrequencyDaily         Frequency = 1
	FrequencyEveryOtherDay Frequency = 2
	FrequencyThreeDays     Frequency = 3
	FrequencyWeekly        Frequency = 7
	FrequencyMonthly       Frequency = 30
)

var Frequencies = []Frequency{
	FrequencyDaily, FrequencyEveryOtherDay, FrequencyThreeDays, FrequencyWeekly, FrequencyMonthly,
}

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyEveryOtherDay, FrequencyThreeDays, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

func (f Frequency) Days() int { return int(f) }

func (f Frequency) String() string {
	switch f {
	case FrequencyDaily:
		return "1 Day"
	case FrequencyEveryOtherDay:
		return "Every Other Day"
	case FrequencyThreeDays:
		return "Every 3 Days"
	case FrequencyWeekly:
		return "Once a Week"
	case FrequencyMonthly:
		return "Once a Month"
	default:
		return "Every " + strconv.Itoa(int(f)) + " Days"
	}
}
