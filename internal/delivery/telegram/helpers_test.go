package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

func TestParseAnswerArgs(t *testing.T) {
	a, err := parseAnswerArgs("correct 42.5 Physics Ray Optics")
	require.NoError(t, err)
	assert.True(t, a.Correct)
	assert.Equal(t, 42.5, a.TimeSpent)
	assert.Equal(t, "Physics", a.Subject)
	assert.Equal(t, "Ray Optics", a.Topic)

	a, err = parseAnswerArgs("WRONG")
	require.NoError(t, err)
	assert.False(t, a.Correct)
	assert.Zero(t, a.TimeSpent)
	assert.Empty(t, a.Subject)

	for _, bad := range []string{"", "maybe", "correct fast", "correct NaN"} {
		_, err := parseAnswerArgs(bad)
		assert.ErrorIs(t, err, errInvalidAnswer, bad)
	}
}

func TestParseSubjects(t *testing.T) {
	subjects, mastery, err := parseSubjects("Physics: Optics=40, Waves ; Chemistry: Bonding, ;")
	require.NoError(t, err)

	require.Len(t, subjects, 2)
	assert.Equal(t, entities.Subject{Name: "Physics", Topics: []string{"Optics", "Waves"}}, subjects[0])
	assert.Equal(t, entities.Subject{Name: "Chemistry", Topics: []string{"Bonding"}}, subjects[1])
	assert.Equal(t, map[string]float64{"Optics": 40}, mastery)
}

func TestParseSubjects_Invalid(t *testing.T) {
	for _, bad := range []string{"", " ; ", ": Optics", "Physics: Optics=high", "Physics: Optics=140"} {
		_, _, err := parseSubjects(bad)
		assert.ErrorIs(t, err, errInvalidSubjects, bad)
	}
}

func TestParseDoneArgs(t *testing.T) {
	day, results, err := parseDoneArgs("3")
	require.NoError(t, err)
	assert.Equal(t, 3, day)
	assert.Nil(t, results)

	day, results, err = parseDoneArgs("12 25 20 45")
	require.NoError(t, err)
	assert.Equal(t, 12, day)
	assert.Equal(t, &entities.StudyDayResults{QuestionsAnswered: 25, CorrectAnswers: 20, TimeSpent: 45}, results)

	for _, bad := range []string{"", "0", "61", "3 25 20", "3 10 20 5", "3 -1 0 0", "x"} {
		_, _, err := parseDoneArgs(bad)
		assert.ErrorIs(t, err, errInvalidDay, bad)
	}
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, entities.PeriodDay, parsePeriod("Today"))
	assert.Equal(t, entities.PeriodAllTime, parsePeriod("all"))
	assert.Equal(t, entities.PeriodWeek, parsePeriod(""))
	assert.Equal(t, entities.PeriodWeek, parsePeriod("month"))
}

func TestResultsFromActivity(t *testing.T) {
	activities := []entities.DailyActivity{
		{Date: "2024-03-09", QuestionsAnswered: 4},
		{Date: "2024-03-10", QuestionsAnswered: 12, CorrectAnswers: 9, TimeSpent: 30},
	}

	assert.Equal(t,
		entities.StudyDayResults{QuestionsAnswered: 12, CorrectAnswers: 9, TimeSpent: 30},
		resultsFromActivity(activities, "2024-03-10"),
	)
	assert.Equal(t, entities.StudyDayResults{}, resultsFromActivity(activities, "2024-03-11"))
}

func TestCallbackDataRoundTrip(t *testing.T) {
	cd := decodeCallback(buildLeaderboardCallback(entities.PeriodDay))
	assert.Equal(t, actionLeaderboard, cd.Action)
	assert.Equal(t, entities.PeriodDay, cd.param(0))
	assert.Empty(t, cd.param(1))

	cd = decodeCallback(buildStatsCallback())
	assert.Equal(t, actionStats, cd.Action)
	assert.Empty(t, cd.Params)
}
