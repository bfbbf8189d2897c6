package service

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

// ProgressService records question and mock test results. Its writes are
// read-modify-write cycles on the stored lists, so they are serialized: the
// nightly prune runs on its own goroutine.
type ProgressService struct {
	repository ProgressRepository
	clock      Clock
	logger     *zap.Logger

	mu sync.Mutex
}

func NewProgressService(repository ProgressRepository, clock Clock, logger *zap.Logger) *ProgressService {
	if clock == nil {
		clock = LocalClock(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{
		repository: repository,
		clock:      clock,
		logger:     logger,
	}
}

// RecordQuestionResult appends result to the history and folds it into today's activity.
func (s *ProgressService) RecordQuestionResult(result entities.QuestionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if result.Timestamp.IsZero() {
		result.Timestamp = now
	}
	result.TimeSpent = result.ClampedTimeSpent()

	history := append(s.repository.QuestionHistory(), result)
	if overflow := len(history) - entities.MaxQuestionHistory; overflow > 0 {
		history = history[overflow:]
	}
	s.repository.SaveQuestionHistory(history)

	today := entities.DateKey(now)
	activities := s.repository.DailyActivities()

	idx := -1
	for i := range activities {
		if activities[i].Date == today {
			idx = i
			break
		}
	}
	if idx < 0 {
		activities = append(activities, entities.DailyActivity{Date: today})
		idx = len(activities) - 1
	}
	activities[idx].Add(result)

	activities, _ = s.pruneActivities(activities)
	s.repository.SaveDailyActivities(activities)
}

// RecordMockTestResult appends a finished mock test. The history is never trimmed.
func (s *ProgressService) RecordMockTestResult(result entities.MockTestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.CompletedAt.IsZero() {
		result.CompletedAt = s.clock()
	}
	if result.Answers == nil {
		result.Answers = []entities.QuestionResult{}
	}
	s.repository.SaveMockTestResults(append(s.repository.MockTestResults(), result))
}

// SubjectProgress summarises the history entries tagged with subject.
func (s *ProgressService) SubjectProgress(subject string) entities.SubjectProgress {
	progress := entities.SubjectProgress{
		Subject:      subject,
		TopicMastery: map[string]float64{},
	}

	var totalTime float64
	for _, r := range s.repository.QuestionHistory() {
		if !strings.EqualFold(r.Subject, subject) {
			continue
		}
		progress.QuestionsAnswered++
		if r.Correct {
			progress.CorrectAnswers++
		}
		totalTime += r.ClampedTimeSpent()
	}

	if progress.QuestionsAnswered > 0 {
		n := float64(progress.QuestionsAnswered)
		progress.Accuracy = float64(progress.CorrectAnswers) / n * 100
		progress.AverageTime = totalTime / n
	}
	return progress
}

func (s *ProgressService) QuestionHistory() []entities.QuestionResult {
	return s.repository.QuestionHistory()
}

func (s *ProgressService) DailyActivities() []entities.DailyActivity {
	return s.repository.DailyActivities()
}

func (s *ProgressService) MockTestResults() []entities.MockTestResult {
	return s.repository.MockTestResults()
}

// TotalAnswered implements AnswerCounter.
func (s *ProgressService) TotalAnswered() int {
	return len(s.repository.QuestionHistory())
}

// RecentActivity returns one entry per calendar day of the last days days, oldest first.
// Days without activity are zero-filled.
func (s *ProgressService) RecentActivity(days int) []entities.DailyActivity {
	if days <= 0 {
		return []entities.DailyActivity{}
	}

	byDate := make(map[string]entities.DailyActivity)
	for _, a := range s.repository.DailyActivities() {
		byDate[a.Date] = a
	}

	now := s.clock()
	out := make([]entities.DailyActivity, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := entities.AddDays(now, -i)
		a, ok := byDate[date]
		if !ok {
			a = entities.DailyActivity{Date: date}
		}
		out = append(out, a)
	}
	return out
}

// PruneActivities drops daily activities past the retention window and
// returns how many were removed.
func (s *ProgressService) PruneActivities() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, removed := s.pruneActivities(s.repository.DailyActivities())
	if removed > 0 {
		s.repository.SaveDailyActivities(activities)
	}
	return removed
}

func (s *ProgressService) pruneActivities(activities []entities.DailyActivity) ([]entities.DailyActivity, int) {
	cutoff := entities.AddDays(s.clock(), -entities.DailyActivityDays)

	kept := activities[:0]
	for _, a := range activities {
		// Dates share one fixed layout, so string order is calendar order.
		if a.Date >= cutoff {
			kept = append(kept, a)
		}
	}
	return kept, len(activities) - len(kept)
}
