package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

func sampleSubjects() []entities.Subject {
	return []entities.Subject{
		{Name: "Physics", Topics: []string{"Kinematics", "Optics", "Thermodynamics", "Waves", "Electrostatics"}},
		{Name: "Chemistry", Topics: []string{"Bonding", "Equilibrium"}},
	}
}

func TestDailyQuota(t *testing.T) {
	assert.Equal(t, 25, DailyQuota("JEE"))
	assert.Equal(t, 24, DailyQuota("neet"))
	assert.Equal(t, 20, DailyQuota("sat"))
	assert.Equal(t, 20, DailyQuota(""))
}

func TestStudyPlan_CreatePlanSchedule(t *testing.T) {
	d := newTestDevice(at("2024-12-30", 9))

	plan, days, err := d.plans.CreatePlan("jee", sampleSubjects(), map[string]float64{"Optics": 40})
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "2024-12-30", plan.StartDate)
	assert.Equal(t, entities.StudyPlanDays, plan.TotalDays)
	assert.Equal(t, 1, plan.CurrentDay)
	assert.Equal(t, map[string]float64{"Optics": 40}, plan.WeakTopics)

	require.Len(t, days, entities.StudyPlanDays)
	assert.Equal(t, "2024-12-30", days[0].Date)
	assert.Equal(t, "2025-01-01", days[2].Date)
	for i := 1; i < len(days); i++ {
		assert.Equal(t, i+1, days[i].DayNumber)
		assert.Greater(t, days[i].Date, days[i-1].Date)
	}

	for _, day := range days {
		perSubject := map[string]int{}
		for _, target := range day.Targets {
			perSubject[target.Subject]++
		}
		for subject, n := range perSubject {
			assert.LessOrEqual(t, n, 3, "day %d subject %s", day.DayNumber, subject)
		}
	}

	stored, err := d.plans.Plan()
	require.NoError(t, err)
	assert.Equal(t, plan.ID, stored.ID)
	assert.Len(t, d.plans.Days(), entities.StudyPlanDays)
}

func TestStudyPlan_Phases(t *testing.T) {
	subjects := sampleSubjects()
	mastery := map[string]float64{"Optics": 40, "Waves": 59.9, "Kinematics": 60}
	perSubject := ceilDiv(DailyQuota("jee"), len(subjects))
	require.Equal(t, 13, perSubject)

	tests := []struct {
		day        int
		difficulty entities.Difficulty
		physics    []string
		chemistry  []string
	}{
		{day: 1, difficulty: entities.DifficultyEasy, physics: []string{"Optics", "Waves"}, chemistry: []string{"Bonding", "Equilibrium"}},
		{day: 12, difficulty: entities.DifficultyMedium, physics: []string{"Waves", "Optics"}, chemistry: []string{"Equilibrium", "Bonding"}},
		{day: 21, difficulty: entities.DifficultyMedium, physics: []string{"Kinematics", "Optics", "Thermodynamics"}, chemistry: []string{"Bonding", "Equilibrium"}},
		{day: 35, difficulty: entities.DifficultyHard, physics: []string{"Electrostatics", "Kinematics", "Optics"}, chemistry: []string{"Bonding", "Equilibrium"}},
		{day: 41, difficulty: entities.DifficultyHard, physics: []string{"Optics", "Waves"}, chemistry: []string{"Bonding", "Equilibrium"}},
		{day: 60, difficulty: entities.DifficultyMedium, physics: []string{"Electrostatics", "Kinematics", "Optics"}, chemistry: []string{"Equilibrium", "Bonding"}},
	}

	for _, tt := range tests {
		targets := DayTargets(subjects, tt.day, perSubject, mastery)

		got := map[string][]string{}
		for _, target := range targets {
			assert.Equal(t, tt.difficulty, target.Difficulty, "day %d", tt.day)
			got[target.Subject] = append(got[target.Subject], target.Topic)
		}
		assert.Equal(t, tt.physics, got["Physics"], "day %d physics", tt.day)
		assert.Equal(t, tt.chemistry, got["Chemistry"], "day %d chemistry", tt.day)
	}
}

func TestStudyPlan_QuestionsPerTopic(t *testing.T) {
	subjects := []entities.Subject{{Name: "Maths", Topics: []string{"Algebra", "Calculus", "Geometry", "Probability"}}}

	targets := DayTargets(subjects, 25, 20, nil)

	require.Len(t, targets, 3)
	for _, target := range targets {
		assert.Equal(t, 7, target.QuestionCount)
	}

	single := DayTargets([]entities.Subject{{Name: "Maths", Topics: []string{"Algebra"}}}, 25, 20, nil)
	require.Len(t, single, 1)
	assert.Equal(t, 20, single[0].QuestionCount)
}

func TestStudyPlan_NoWeakTopicsFallback(t *testing.T) {
	subjects := []entities.Subject{{Name: "Maths", Topics: []string{"A", "B", "C", "D", "E"}}}

	early := DayTargets(subjects, 5, 20, nil)
	for _, target := range early {
		assert.Contains(t, []string{"A", "B", "C"}, target.Topic)
	}

	late := DayTargets(subjects, 45, 20, nil)
	topics := []string{}
	for _, target := range late {
		topics = append(topics, target.Topic)
	}
	assert.Equal(t, []string{"E", "A", "B"}, topics)
}

func TestStudyPlan_SubjectWithoutTopicsIsSkipped(t *testing.T) {
	subjects := []entities.Subject{{Name: "Empty"}, {Name: "Maths", Topics: []string{"Algebra"}}}

	targets := DayTargets(subjects, 1, 10, nil)

	require.Len(t, targets, 1)
	assert.Equal(t, "Maths", targets[0].Subject)
}

func TestStudyPlan_CreatePlanWithoutSubjects(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 9))

	_, _, err := d.plans.CreatePlan("jee", nil, nil)
	assert.ErrorIs(t, err, ErrNoSubjects)

	_, _, err = d.plans.CreatePlan("jee", []entities.Subject{{Name: "  "}}, nil)
	assert.ErrorIs(t, err, ErrNoSubjects)
}

func TestStudyPlan_CompleteDay(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 9))

	_, err := d.plans.CompleteDay(1, entities.StudyDayResults{})
	assert.ErrorIs(t, err, ErrNoActivePlan)

	_, _, err = d.plans.CreatePlan("neet", sampleSubjects(), nil)
	require.NoError(t, err)

	results := entities.StudyDayResults{QuestionsAnswered: 24, CorrectAnswers: 20, TimeSpent: 35}
	plan, err := d.plans.CompleteDay(3, results)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.CompletedDays)
	assert.Equal(t, 4, plan.CurrentDay)

	plan, err = d.plans.CompleteDay(1, results)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.CompletedDays)
	assert.Equal(t, 4, plan.CurrentDay, "current day never moves backwards")

	plan, err = d.plans.CompleteDay(1, results)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.CompletedDays, "completing twice is counted once")

	day, err := d.plans.Day(3)
	require.NoError(t, err)
	assert.True(t, day.Completed)
	require.NotNil(t, day.ActualResults)
	assert.Equal(t, results, *day.ActualResults)

	current, err := d.plans.CurrentDay()
	require.NoError(t, err)
	assert.Equal(t, 4, current.DayNumber)

	_, err = d.plans.CompleteDay(61, results)
	assert.ErrorIs(t, err, ErrPlanDayNotFound)
}

func TestStudyPlan_DeletePlan(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 9))
	_, _, err := d.plans.CreatePlan("jee", sampleSubjects(), nil)
	require.NoError(t, err)

	d.plans.DeletePlan()

	_, err = d.plans.Plan()
	assert.ErrorIs(t, err, ErrNoActivePlan)
	assert.Empty(t, d.plans.Days())
	_, err = d.plans.Day(1)
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestStudyPlan_DaysSinceStart(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 9))
	_, _, err := d.plans.CreatePlan("jee", sampleSubjects(), nil)
	require.NoError(t, err)

	d.clock.AddDays(4)
	n, err := d.plans.DaysSinceStart(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
