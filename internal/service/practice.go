package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

// Phases a question can be answered in.
const (
	PhasePractice = "practice"
	PhaseMockTest = "mock-test"
)

type ProgressRecorder interface {
	RecordQuestionResult(result entities.QuestionResult)
	RecordMockTestResult(result entities.MockTestResult)
}

type GamificationEngine interface {
	RecordAnswer(correct bool, timeSpent float64) AnswerOutcome
	RecordMockTestBonus(percentage float64) AnswerOutcome
}

// Answer is one answered question as reported by the UI.
type Answer struct {
	QuestionID string
	Correct    bool
	UserAnswer string
	TimeSpent  float64
	Phase      string
	Subject    string
	Topic      string
}

// PracticeService is the entry point for answer and mock test events. It always
// records progress before updating gamification so that answer counts include
// the current answer.
type PracticeService struct {
	progress     ProgressRecorder
	gamification GamificationEngine
	clock        Clock
}

func NewPracticeService(progress ProgressRecorder, gamification GamificationEngine, clock Clock) *PracticeService {
	if clock == nil {
		clock = LocalClock(nil)
	}
	return &PracticeService{
		progress:     progress,
		gamification: gamification,
		clock:        clock,
	}
}

// AnswerQuestion records one answer and applies its rewards.
func (s *PracticeService) AnswerQuestion(a Answer) AnswerOutcome {
	result := toQuestionResult(a, s.clock())
	if result.QuestionID == "" {
		result.QuestionID = uuid.NewString()
	}
	if result.Phase == "" {
		result.Phase = PhasePractice
	}

	s.progress.RecordQuestionResult(result)
	return s.gamification.RecordAnswer(result.Correct, result.TimeSpent)
}

// FinishMockTest stores a completed mock test and grants the mock test bonus.
// Each correct answer scores one point.
func (s *PracticeService) FinishMockTest(answers []Answer, timeUsed int) (entities.MockTestResult, AnswerOutcome) {
	now := s.clock()

	results := make([]entities.QuestionResult, 0, len(answers))
	score := 0
	for _, a := range answers {
		r := toQuestionResult(a, now)
		r.Phase = PhaseMockTest
		if r.Correct {
			score++
		}
		results = append(results, r)
	}

	result := entities.MockTestResult{
		TestID:      uuid.NewString(),
		Answers:     results,
		Score:       score,
		MaxScore:    len(results),
		Percentage:  entities.ScorePercentage(score, len(results)),
		TimeUsed:    max(timeUsed, 0),
		CompletedAt: now,
	}

	s.progress.RecordMockTestResult(result)
	outcome := s.gamification.RecordMockTestBonus(result.Percentage)

	return result, outcome
}

func toQuestionResult(a Answer, at time.Time) entities.QuestionResult {
	return entities.QuestionResult{
		QuestionID: strings.TrimSpace(a.QuestionID),
		Correct:    a.Correct,
		UserAnswer: a.UserAnswer,
		TimeSpent:  entities.ClampSeconds(a.TimeSpent),
		Phase:      a.Phase,
		Subject:    strings.TrimSpace(a.Subject),
		Topic:      strings.TrimSpace(a.Topic),
		Timestamp:  at,
	}
}
