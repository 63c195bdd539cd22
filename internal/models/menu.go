package models

// MealMenu maps a meal period name (아침/점심/저녁) to dish lines.
type MealMenu map[string][]string

// WeekMenu maps a weekday name to that day's meals.
type WeekMenu map[string]MealMenu

// MenuTable maps a restaurant name to its weekly menu.
type MenuTable map[string]WeekMenu
