package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

var (
	ErrNoSubjects      = errors.New("study plan needs at least one subject")
	ErrNoActivePlan    = errors.New("no active study plan")
	ErrPlanDayNotFound = errors.New("study plan day not found")
)

const (
	defaultDailyQuota = 20
	maxTopicsPerDay   = 3
)

var dailyQuotas = map[string]int{
	"jee":  25,
	"neet": 24,
}

// DailyQuota returns the number of questions scheduled per day for examType.
func DailyQuota(examType string) int {
	if q, ok := dailyQuotas[strings.ToLower(strings.TrimSpace(examType))]; ok {
		return q
	}
	return defaultDailyQuota
}

// planPhase describes one contiguous block of plan days.
type planPhase struct {
	lastDay    int
	difficulty entities.Difficulty
	weakOnly   bool
}

var planPhases = []planPhase{
	{lastDay: 10, difficulty: entities.DifficultyEasy, weakOnly: true},
	{lastDay: 20, difficulty: entities.DifficultyMedium, weakOnly: true},
	{lastDay: 30, difficulty: entities.DifficultyMedium},
	{lastDay: 40, difficulty: entities.DifficultyHard},
	{lastDay: 55, difficulty: entities.DifficultyHard, weakOnly: true},
	{lastDay: entities.StudyPlanDays, difficulty: entities.DifficultyMedium},
}

func phaseFor(day int) planPhase {
	for _, p := range planPhases {
		if day <= p.lastDay {
			return p
		}
	}
	return planPhases[len(planPhases)-1]
}

type StudyPlanService struct {
	repository StudyPlanRepository
	clock      Clock
	logger     *zap.Logger
}

func NewStudyPlanService(repository StudyPlanRepository, clock Clock, logger *zap.Logger) *StudyPlanService {
	if clock == nil {
		clock = LocalClock(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyPlanService{
		repository: repository,
		clock:      clock,
		logger:     logger,
	}
}

// CreatePlan generates a 60-day plan starting today and replaces any existing one.
// topicMastery maps topic names to a 0..100 score; topics without a score are not weak.
func (s *StudyPlanService) CreatePlan(
	examType string,
	subjects []entities.Subject,
	topicMastery map[string]float64,
) (*entities.StudyPlanConfig, []entities.StudyPlanDay, error) {
	subjects = cleanSubjects(subjects)
	if len(subjects) == 0 {
		return nil, nil, ErrNoSubjects
	}

	now := s.clock()
	examType = strings.ToLower(strings.TrimSpace(examType))

	plan := &entities.StudyPlanConfig{
		ID:         uuid.NewString(),
		ExamType:   examType,
		StartDate:  entities.DateKey(now),
		TotalDays:  entities.StudyPlanDays,
		CurrentDay: 1,
		Subjects:   subjects,
		WeakTopics: weakTopicScores(subjects, topicMastery),
		CreatedAt:  now,
	}

	perSubject := ceilDiv(DailyQuota(examType), len(subjects))

	days := make([]entities.StudyPlanDay, 0, entities.StudyPlanDays)
	for day := 1; day <= entities.StudyPlanDays; day++ {
		days = append(days, entities.StudyPlanDay{
			DayNumber: day,
			Date:      entities.AddDays(now, day-1),
			Targets:   DayTargets(subjects, day, perSubject, topicMastery),
		})
	}

	s.repository.Save(plan, days)

	s.logger.Info("study plan created",
		zap.String("plan_id", plan.ID),
		zap.String("exam_type", examType),
		zap.Int("subjects", len(subjects)),
	)

	return plan, days, nil
}

// DayTargets computes the targets of one plan day. Every subject gets at most three
// topics, picked by rotating over its pool with the day number.
func DayTargets(subjects []entities.Subject, day, perSubject int, topicMastery map[string]float64) []entities.StudyDayTarget {
	phase := phaseFor(day)

	targets := make([]entities.StudyDayTarget, 0, len(subjects)*maxTopicsPerDay)
	for _, subject := range subjects {
		pool := topicPool(subject, phase, topicMastery)
		if len(pool) == 0 {
			continue
		}

		n := min(maxTopicsPerDay, len(pool))
		perTopic := min(ceilDiv(perSubject, n), perSubject)

		for i := 0; i < n; i++ {
			targets = append(targets, entities.StudyDayTarget{
				Subject:       subject.Name,
				Topic:         pool[(day-1+i)%len(pool)],
				QuestionCount: perTopic,
				Difficulty:    phase.difficulty,
			})
		}
	}
	return targets
}

func topicPool(subject entities.Subject, phase planPhase, topicMastery map[string]float64) []string {
	if !phase.weakOnly {
		return subject.Topics
	}

	weak := weakTopics(subject.Topics, topicMastery)
	if len(weak) > 0 {
		return weak
	}

	// The late weak-topic review falls back to the whole pool, the early
	// phases to the first topics of the syllabus.
	if phase.difficulty == entities.DifficultyHard {
		return subject.Topics
	}
	return subject.Topics[:min(maxTopicsPerDay, len(subject.Topics))]
}

func weakTopics(topics []string, topicMastery map[string]float64) []string {
	var weak []string
	for _, t := range topics {
		if score, ok := topicMastery[t]; ok && score < entities.WeakTopicThreshold {
			weak = append(weak, t)
		}
	}
	return weak
}

func weakTopicScores(subjects []entities.Subject, topicMastery map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range subjects {
		for _, t := range weakTopics(s.Topics, topicMastery) {
			out[t] = topicMastery[t]
		}
	}
	return out
}

// cleanSubjects drops blank topics and subjects without a name.
func cleanSubjects(subjects []entities.Subject) []entities.Subject {
	out := make([]entities.Subject, 0, len(subjects))
	for _, s := range subjects {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		topics := make([]string, 0, len(s.Topics))
		for _, t := range s.Topics {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
		out = append(out, entities.Subject{Name: name, Topics: topics})
	}
	return out
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// CompleteDay marks dayNumber completed with the user's actual results.
func (s *StudyPlanService) CompleteDay(dayNumber int, results entities.StudyDayResults) (*entities.StudyPlanConfig, error) {
	plan := s.repository.Plan()
	if plan == nil {
		return nil, ErrNoActivePlan
	}

	days := s.repository.Days()
	idx := -1
	for i := range days {
		if days[i].DayNumber == dayNumber {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrPlanDayNotFound
	}

	days[idx].Completed = true
	days[idx].ActualResults = &results

	completed := 0
	for _, d := range days {
		if d.Completed {
			completed++
		}
	}
	plan.CompletedDays = completed
	plan.CurrentDay = max(plan.CurrentDay, dayNumber+1)

	s.repository.Save(plan, days)
	return plan, nil
}

// DeletePlan removes the active plan and its schedule.
func (s *StudyPlanService) DeletePlan() {
	s.repository.Delete()
}

// Plan returns the active plan or ErrNoActivePlan.
func (s *StudyPlanService) Plan() (*entities.StudyPlanConfig, error) {
	plan := s.repository.Plan()
	if plan == nil {
		return nil, ErrNoActivePlan
	}
	return plan, nil
}

func (s *StudyPlanService) Days() []entities.StudyPlanDay {
	return s.repository.Days()
}

// Day returns the schedule entry of dayNumber.
func (s *StudyPlanService) Day(dayNumber int) (entities.StudyPlanDay, error) {
	if s.repository.Plan() == nil {
		return entities.StudyPlanDay{}, ErrNoActivePlan
	}
	for _, d := range s.repository.Days() {
		if d.DayNumber == dayNumber {
			return d, nil
		}
	}
	return entities.StudyPlanDay{}, ErrPlanDayNotFound
}

// CurrentDay returns the first day the user has not moved past yet.
func (s *StudyPlanService) CurrentDay() (entities.StudyPlanDay, error) {
	plan, err := s.Plan()
	if err != nil {
		return entities.StudyPlanDay{}, err
	}
	return s.Day(min(plan.CurrentDay, plan.TotalDays))
}

// DaysSinceStart reports the plan day that matches today's calendar date.
func (s *StudyPlanService) DaysSinceStart(loc *time.Location) (int, error) {
	plan, err := s.Plan()
	if err != nil {
		return 0, err
	}
	start, err := entities.ParseDate(plan.StartDate, loc)
	if err != nil {
		return 0, err
	}
	today, err := entities.ParseDate(entities.DateKey(s.clock()), loc)
	if err != nil {
		return 0, err
	}
	return int(math.Round(today.Sub(start).Hours()/24)) + 1, nil
}
