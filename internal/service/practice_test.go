package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

func TestPractice_AnswerQuestion(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 12))

	out := d.practice.AnswerQuestion(Answer{QuestionID: "q1", Correct: true, UserAnswer: "B", TimeSpent: 45, Subject: "Physics"})

	assert.Equal(t, 10, out.XPGained)
	history := d.progress.QuestionHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "q1", history[0].QuestionID)
	assert.Equal(t, PhasePractice, history[0].Phase)
	assert.Equal(t, at("2024-03-10", 12), history[0].Timestamp)
	assert.Equal(t, 1, d.progress.DailyActivities()[0].CorrectAnswers)
}

func TestPractice_AnswerCountAchievementsIncludeCurrentAnswer(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 12))

	for i := 0; i < 99; i++ {
		d.practice.AnswerQuestion(Answer{Correct: true, TimeSpent: 45})
	}
	assert.False(t, d.gamification.State().HasAchievement(entities.AchievementQuestions100))

	out := d.practice.AnswerQuestion(Answer{Correct: true, TimeSpent: 45})

	assert.Contains(t, achievementIDs(out.NewAchievements), entities.AchievementQuestions100)
	assert.Equal(t, 1000, out.State.XP)
	assert.Equal(t, 11, out.State.Level)
	assert.True(t, out.State.HasAchievement(entities.AchievementLevel5))
	assert.True(t, out.State.HasAchievement(entities.AchievementLevel10))
}

func TestPractice_FinishMockTest(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 12))

	result, out := d.practice.FinishMockTest([]Answer{
		{QuestionID: "1", Correct: true, TimeSpent: 40},
		{QuestionID: "2", Correct: false, TimeSpent: 50},
		{QuestionID: "3", Correct: true, TimeSpent: 30},
	}, 600)

	assert.NotEmpty(t, result.TestID)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.MaxScore)
	assert.InDelta(t, 66.67, result.Percentage, 0.01)
	assert.Equal(t, 600, result.TimeUsed)
	for _, a := range result.Answers {
		assert.Equal(t, PhaseMockTest, a.Phase)
	}

	assert.Equal(t, 50, out.XPGained)
	assert.Empty(t, out.NewAchievements)
	assert.Len(t, d.progress.MockTestResults(), 1)
	assert.Zero(t, d.progress.TotalAnswered())
}

func TestPractice_PerfectMockTest(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 12))

	result, out := d.practice.FinishMockTest([]Answer{{Correct: true}, {Correct: true}}, -1)

	assert.Equal(t, float64(entities.PerfectMockScore), result.Percentage)
	assert.Zero(t, result.TimeUsed)
	assert.Equal(t, []string{entities.AchievementPerfectTest}, achievementIDs(out.NewAchievements))
}
