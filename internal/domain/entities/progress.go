package entities

import (
	"math"
	"time"
)

// Retention limits of the progress log.
const (
	MaxQuestionHistory    = 500 // most recent question results kept
	DailyActivityDays     = 90  // days of DailyActivity kept
	SecondsPerActivityMin = 60
)

// QuestionResult is one answered question. The history is append-only.
type QuestionResult struct {
	QuestionID string    `json:"questionId"`
	Correct    bool      `json:"correct"`
	UserAnswer string    `json:"userAnswer"`
	TimeSpent  float64   `json:"timeSpent"` // seconds
	Phase      string    `json:"phase"`
	Subject    string    `json:"subject,omitempty"`
	Topic      string    `json:"topic,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ClampedTimeSpent returns TimeSpent with negative values treated as zero.
func (r QuestionResult) ClampedTimeSpent() float64 {
	return ClampSeconds(r.TimeSpent)
}

// ClampSeconds treats negative or NaN durations as zero.
func ClampSeconds(s float64) float64 {
	if s < 0 || math.IsNaN(s) {
		return 0
	}
	return s
}

// DailyActivity aggregates the question results of one calendar date.
type DailyActivity struct {
	Date              string `json:"date"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	CorrectAnswers    int    `json:"correctAnswers"`
	XPEarned          int    `json:"xpEarned"`
	TimeSpent         int    `json:"timeSpent"` // minutes
}

// Add folds one question result into the aggregate.
func (d *DailyActivity) Add(r QuestionResult) {
	d.QuestionsAnswered++
	if r.Correct {
		d.CorrectAnswers++
	}
	d.XPEarned += BaseAnswerReward(r.Correct)
	d.TimeSpent += int(math.Round(r.ClampedTimeSpent() / SecondsPerActivityMin))
}

// MockTestResult is a finished mock test. Results are written once.
type MockTestResult struct {
	TestID      string           `json:"testId"`
	Answers     []QuestionResult `json:"answers"`
	Score       int              `json:"score"`
	MaxScore    int              `json:"maxScore"`
	Percentage  float64          `json:"percentage"`
	TimeUsed    int              `json:"timeUsed"` // seconds
	CompletedAt time.Time        `json:"completedAt"`
}

// ScorePercentage computes score/maxScore as a 0..100 percentage.
func ScorePercentage(score, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	p := float64(score) / float64(maxScore) * 100
	return math.Max(0, math.Min(100, p))
}

// SubjectProgress summarises the question history of one subject.
type SubjectProgress struct {
	Subject           string             `json:"subject"`
	QuestionsAnswered int                `json:"questionsAnswered"`
	CorrectAnswers    int                `json:"correctAnswers"`
	Accuracy          float64            `json:"accuracy"`     // percent
	AverageTime       float64            `json:"averageTime"`  // seconds
	TopicMastery      map[string]float64 `json:"topicMastery"` // not computed yet, always empty
}
