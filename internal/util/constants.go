package util

const (
	DateFormat  = "2006-01-02"
	MonthFormat = "2006-01"
)

const (
	LanguagePython     = "python"
	LanguageJavaScript = "javascript"
)

const DefaultSessionCode = "# Write your Python code here\n"

// Frequency presets are named selections of target days.
const (
	FrequencyDaily    = "daily"
	FrequencyWeekdays = "weekdays"
	FrequencyWeekends = "weekends"
	FrequencyCustom   = "custom"
)

var FrequencyDays = map[string][]int{
	FrequencyDaily:    {0, 1, 2, 3, 4, 5, 6},
	FrequencyWeekdays: {1, 2, 3, 4, 5},
	FrequencyWeekends: {0, 6},
}

const (
	DefaultHabitColor = "#6366f1"
	DefaultHabitIcon  = "check"
)

var HabitIcons = []string{
	"check", "fire", "star", "heart", "book", "gym",
	"water", "sleep", "meditate", "walk", "code", "music",
}

func IsValidLanguage(lang string) bool {
	return lang == LanguagePython || lang == LanguageJavaScript
}
