package model

import (
	"strings"
	"time"
)

// Day is a day of the meal-planning week, Monday through Sunday.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists the week in survey order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// MealType is one of the three daily meals.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists meals in the order they appear on a survey row.
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseDay maps a case-insensitive day name to its Day value.
func ParseDay(s string) (Day, bool) {
	for _, d := range Days {
		if strings.EqualFold(s, string(d)) {
			return d, true
		}
	}
	return "", false
}

// ParseMealType maps a case-insensitive meal name to its MealType value.
func ParseMealType(s string) (MealType, bool) {
	for _, m := range MealTypes {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return "", false
}

// Title renders a meal type with a leading capital, e.g. "Breakfast".
func (m MealType) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[0])) + string(m[1:])
}

// Response records whether a member wants a given meal on a given day of a
// given week. At most one row exists per (member, week, day, meal) tuple;
// toggling flips Value in place.
type Response struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	WeekStart string    `json:"week_start"`
	Day       Day       `json:"day"`
	Meal      MealType  `json:"meal_type"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
