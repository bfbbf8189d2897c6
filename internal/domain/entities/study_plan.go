package entities

import "time"

// StudyPlanDays is the fixed horizon of every generated plan.
const StudyPlanDays = 60

// WeakTopicThreshold is the mastery score below which a topic counts as weak.
const WeakTopicThreshold = 60

// Difficulty of a study target.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// Subject is one exam subject together with its topic pool.
type Subject struct {
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

// StudyPlanConfig describes the active plan. There is at most one.
type StudyPlanConfig struct {
	ID            string             `json:"id"`
	ExamType      string             `json:"examType"`
	StartDate     string             `json:"startDate"`
	TotalDays     int                `json:"totalDays"`
	CurrentDay    int                `json:"currentDay"`
	CompletedDays int                `json:"completedDays"`
	Subjects      []Subject          `json:"subjects"`
	WeakTopics    map[string]float64 `json:"weakTopics"` // topic -> mastery snapshot at creation
	CreatedAt     time.Time          `json:"createdAt"`
}

// StudyDayTarget is the practice goal for one topic on one day.
type StudyDayTarget struct {
	Subject       string     `json:"subject"`
	Topic         string     `json:"topic"`
	QuestionCount int        `json:"questionCount"`
	Difficulty    Difficulty `json:"difficulty"`
}

// StudyDayResults is what the user actually did on a plan day.
type StudyDayResults struct {
	QuestionsAnswered int `json:"questionsAnswered"`
	CorrectAnswers    int `json:"correctAnswers"`
	TimeSpent         int `json:"timeSpent"` // minutes
}

// StudyPlanDay is one scheduled day. Only Completed and ActualResults change after generation.
type StudyPlanDay struct {
	DayNumber     int              `json:"dayNumber"`
	Date          string           `json:"date"`
	Completed     bool             `json:"completed"`
	Targets       []StudyDayTarget `json:"targets"`
	ActualResults *StudyDayResults `json:"actualResults,omitempty"`
}

// TotalQuestions sums the question counts of all targets of the day.
func (d StudyPlanDay) TotalQuestions() int {
	total := 0
	for _, t := range d.Targets {
		total += t.QuestionCount
	}
	return total
}
