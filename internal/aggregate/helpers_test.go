package aggregate

import "github.com/user/wearable-insights-go/internal/models"

const (
	motivationCol = "Has the fitness wearable helped you stay motivated to exercise?"
	enjoyableCol  = "Do you think that the fitness wearable has made exercising more enjoyable?"
)

// sampleRecords mimics a handful of rows of the cleaned survey export.
func sampleRecords() []models.Record {
	return []models.Record{
		{
			"Age": "18-24", "ExerciseFreq": "Daily",
			"WearableUseFreq": "Daily", "Engagement": "Agree",
			"RoutineImpact": "Positively impacted my fitness routine",
			motivationCol:   "Strongly agree", enjoyableCol: "Agree",
			"CommunityConnection": "Neutral", "SleepImpact": "Agree",
		},
		{
			"Age": "18-24", "ExerciseFreq": "3-4 times a week",
			"WearableUseFreq": "Daily", "Engagement": " Agree ",
			"RoutineImpact": "Positively impacted my fitness routine",
			motivationCol:   " Agree", enjoyableCol: "agree",
			"CommunityConnection": "Disagree",
		},
		{
			"Age": "25-34", "ExerciseFreq": "Daily",
			"WearableUseFreq": "Weekly", "Engagement": "Neutral",
			"RoutineImpact": "No impact on my fitness routine",
			motivationCol:   "Neutral", enjoyableCol: "Strongly disagree",
		},
		{
			"Age": "25-34", "ExerciseFreq": "Rarely",
			"WearableUseFreq": "Weekly", "Engagement": "",
			"RoutineImpact": "I don't know",
			motivationCol:   "Not sure",
		},
		{
			"Age": "35-44", "ExerciseFreq": "Daily",
			"WearableUseFreq": "Rarely", "Engagement": "Disagree",
			"RoutineImpact": "It changed when I train",
			motivationCol:   "Disagree", enjoyableCol: "Strongly agree",
		},
	}
}
