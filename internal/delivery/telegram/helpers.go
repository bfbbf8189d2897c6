package telegram

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/service"
)

var (
	errInvalidAnswer   = errors.New("invalid answer arguments")
	errInvalidSubjects = errors.New("invalid subjects")
	errInvalidDay      = errors.New("invalid plan day")
)

// parseAnswerArgs parses "/answer <correct|wrong> [seconds] [subject] [topic...]".
func parseAnswerArgs(args string) (service.Answer, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return service.Answer{}, errInvalidAnswer
	}

	var a service.Answer
	switch strings.ToLower(fields[0]) {
	case "correct", "right", "yes", "y", "+", "1":
		a.Correct = true
	case "wrong", "incorrect", "no", "n", "-", "0":
		a.Correct = false
	default:
		return service.Answer{}, errInvalidAnswer
	}

	if len(fields) > 1 {
		seconds, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return service.Answer{}, errInvalidAnswer
		}
		a.TimeSpent = seconds
	}
	if len(fields) > 2 {
		a.Subject = fields[2]
	}
	if len(fields) > 3 {
		a.Topic = strings.Join(fields[3:], " ")
	}

	a.UserAnswer = strings.ToLower(fields[0])
	return a, nil
}

// parseSubjects parses "Physics: Optics=40, Waves; Chemistry: Bonding" into subjects
// and the mastery scores given after "=".
func parseSubjects(args string) ([]entities.Subject, map[string]float64, error) {
	mastery := make(map[string]float64)
	var subjects []entities.Subject

	for _, part := range strings.Split(args, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, rest, _ := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, nil, errInvalidSubjects
		}

		subject := entities.Subject{Name: name}
		for _, raw := range strings.Split(rest, ",") {
			topic, score, hasScore := strings.Cut(raw, "=")
			topic = strings.TrimSpace(topic)
			if topic == "" {
				continue
			}
			if hasScore {
				v, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
				if err != nil || v < 0 || v > 100 {
					return nil, nil, errInvalidSubjects
				}
				mastery[topic] = v
			}
			subject.Topics = append(subject.Topics, topic)
		}
		subjects = append(subjects, subject)
	}

	if len(subjects) == 0 {
		return nil, nil, errInvalidSubjects
	}
	return subjects, mastery, nil
}

// parseDoneArgs parses "/done <day> [answered correct minutes]". Results are nil when
// only the day is given.
func parseDoneArgs(args string) (int, *entities.StudyDayResults, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 && len(fields) != 4 {
		return 0, nil, errInvalidDay
	}

	day, err := parseDay(fields[0])
	if err != nil {
		return 0, nil, err
	}
	if len(fields) == 1 {
		return day, nil, nil
	}

	nums := make([]int, 3)
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, nil, errInvalidDay
		}
		nums[i] = n
	}
	if nums[1] > nums[0] {
		return 0, nil, errInvalidDay
	}

	return day, &entities.StudyDayResults{
		QuestionsAnswered: nums[0],
		CorrectAnswers:    nums[1],
		TimeSpent:         nums[2],
	}, nil
}

// parseDay parses a plan day number between 1 and the plan horizon.
func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || day < 1 || day > entities.StudyPlanDays {
		return 0, errInvalidDay
	}
	return day, nil
}

// parsePeriod maps user input to a leaderboard period, defaulting to the current week.
func parsePeriod(args string) string {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "day", "today":
		return entities.PeriodDay
	case "all", "alltime", "all-time", "total":
		return entities.PeriodAllTime
	default:
		return entities.PeriodWeek
	}
}

// resultsFromActivity builds plan day results from the logged activity of a date.
func resultsFromActivity(activities []entities.DailyActivity, date string) entities.StudyDayResults {
	for _, a := range activities {
		if a.Date == date {
			return entities.StudyDayResults{
				QuestionsAnswered: a.QuestionsAnswered,
				CorrectAnswers:    a.CorrectAnswers,
				TimeSpent:         a.TimeSpent,
			}
		}
	}
	return entities.StudyDayResults{}
}
