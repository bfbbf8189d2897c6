package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/app"
	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/service"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// handleStart opens the user's device, signs it in again after /logout and greets the user.
func (h *Handler) handleStart(userID int64, firstName string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)

		if !device.SignedIn() {
			if err := device.SignIn(ctx, app.Identity(userID)); err != nil {
				h.send(newMessage(chatID, md(msgSyncUnavailable)))
			}
		}

		created := !device.Store.Has(storage.KeyUserSettings)
		settings := device.Settings.GetOrCreate()
		if created {
			if name := strings.TrimSpace(firstName); name != "" {
				if err := device.Settings.UpdateName(name); err != nil {
					return fmt.Errorf("update name: %w", err)
				}
				settings.Name = name
			}
		}

		synced := device.Bridge.Enabled() && device.SignedIn()
		msg := newMessage(chatID, buildWelcomeMessage(settings, device.Gamification.State(), synced))
		if created {
			msg.ReplyMarkup = buildExamKeyboard()
		}
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newMessage(chatID, buildHelpMessage()))
		return nil
	}
}

// handleAnswer logs one answer. While a mock test is running the answer joins the test instead.
func (h *Handler) handleAnswer(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		answer, err := parseAnswerArgs(args)
		if err != nil {
			return newUserError(msgUseAnswer)
		}

		if count, ok := h.sessions.Add(userID, entities.QuestionResult{
			Correct:    answer.Correct,
			UserAnswer: answer.UserAnswer,
			TimeSpent:  answer.TimeSpent,
			Phase:      service.PhaseMockTest,
			Subject:    answer.Subject,
			Topic:      answer.Topic,
			Timestamp:  h.clock(),
		}); ok {
			h.send(newMessage(chatID, buildMockTestAnswerMessage(count, answer.Correct)))
			return nil
		}

		device := h.devices.Open(ctx, userID)
		outcome := device.Practice.AnswerQuestion(answer)

		h.logger.Debug("answer recorded",
			zap.Int64("user_id", userID),
			zap.Bool("correct", answer.Correct),
			zap.Int("xp_gained", outcome.XPGained),
		)

		h.send(newMessage(chatID, formatAnswerOutcome(answer.Correct, outcome)))
		return nil
	}
}

func (h *Handler) handleStats(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, h.renderStats(ctx, userID))
		msg.ReplyMarkup = buildStatsKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) renderStats(ctx context.Context, userID int64) string {
	device := h.devices.Open(ctx, userID)
	return buildStatsMessage(
		device.Settings.GetOrCreate(),
		device.Gamification.State(),
		device.Gamification.XPForNextLevel(),
		device.Progress.RecentActivity(7),
		device.Progress.TotalAnswered(),
	)
}

func (h *Handler) handleAchievements(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)
		h.send(newMessage(chatID, buildAchievementsMessage(device.Gamification.State())))
		return nil
	}
}

// handleMockTest starts, finishes or cancels a mock test.
func (h *Handler) handleMockTest(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch strings.ToLower(strings.TrimSpace(args)) {
		case "", "start":
			if _, ok := h.sessions.Get(userID); ok {
				return newUserError(msgMockTestRunning)
			}
			h.sessions.Start(userID, h.clock())
			h.send(newMessage(chatID, md(msgMockTestStarted)))
			return nil

		case "cancel":
			if _, ok := h.sessions.Finish(userID); !ok {
				return newUserError(msgMockTestNone)
			}
			h.send(newMessage(chatID, md(msgMockTestCancelled)))
			return nil

		case "finish", "done", "stop":
			session, ok := h.sessions.Finish(userID)
			if !ok {
				return newUserError(msgMockTestNone)
			}
			if len(session.Answers) == 0 {
				return newUserError(msgMockTestEmpty)
			}

			answers := make([]service.Answer, 0, len(session.Answers))
			for _, r := range session.Answers {
				answers = append(answers, service.Answer{
					QuestionID: r.QuestionID,
					Correct:    r.Correct,
					UserAnswer: r.UserAnswer,
					TimeSpent:  r.TimeSpent,
					Phase:      service.PhaseMockTest,
					Subject:    r.Subject,
					Topic:      r.Topic,
				})
			}

			device := h.devices.Open(ctx, userID)
			result, outcome := device.Practice.FinishMockTest(answers, session.Elapsed(h.clock()))

			h.logger.Info("mock test finished",
				zap.Int64("user_id", userID),
				zap.String("test_id", result.TestID),
				zap.Float64("percentage", result.Percentage),
			)

			h.send(newMessage(chatID, buildMockTestResultMessage(result, outcome)))
			return nil

		default:
			return newUserError(msgMockTestNone)
		}
	}
}

// handlePlan shows the current plan day, or the day given as argument.
func (h *Handler) handlePlan(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)

		plan, err := device.Plans.Plan()
		if err != nil {
			return planError(err)
		}

		var day entities.StudyPlanDay
		if strings.TrimSpace(args) == "" {
			day, err = device.Plans.CurrentDay()
		} else {
			n, perr := parseDay(args)
			if perr != nil {
				return newUserError(msgUsePlanDay)
			}
			day, err = device.Plans.Day(n)
		}
		if err != nil {
			return planError(err)
		}

		h.send(newMessage(chatID, buildPlanDayMessage(plan, day)))
		return nil
	}
}

// handleNewPlan generates a fresh plan for the user's exam type.
func (h *Handler) handleNewPlan(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		subjects, mastery, err := parseSubjects(args)
		if err != nil {
			return newUserError(msgUseNewPlan)
		}

		device := h.devices.Open(ctx, userID)
		settings := device.Settings.GetOrCreate()

		plan, days, err := device.Plans.CreatePlan(settings.ExamType, subjects, mastery)
		if err != nil {
			if errors.Is(err, service.ErrNoSubjects) {
				return newUserError(msgUseNewPlan)
			}
			return fmt.Errorf("create plan: %w", err)
		}

		h.send(newMessage(chatID, buildPlanCreatedMessage(plan, days[0])))
		return nil
	}
}

// handleDone completes a plan day. Without explicit numbers the activity logged
// on the plan day's date is used.
func (h *Handler) handleDone(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		dayNumber, results, err := parseDoneArgs(args)
		if err != nil {
			return newUserError(msgUseDone)
		}

		device := h.devices.Open(ctx, userID)

		day, err := device.Plans.Day(dayNumber)
		if err != nil {
			return planError(err)
		}
		if results == nil {
			r := resultsFromActivity(device.Progress.DailyActivities(), day.Date)
			results = &r
		}

		plan, err := device.Plans.CompleteDay(dayNumber, *results)
		if err != nil {
			return planError(err)
		}

		day.Completed = true
		day.ActualResults = results
		h.send(newMessage(chatID, buildPlanDayMessage(plan, day)))
		return nil
	}
}

func (h *Handler) handleDeletePlan(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)
		if _, err := device.Plans.Plan(); err != nil {
			return planError(err)
		}
		device.Plans.DeletePlan()
		h.send(newMessage(chatID, md(msgPlanDeleted)))
		return nil
	}
}

func planError(err error) error {
	switch {
	case errors.Is(err, service.ErrNoActivePlan):
		return newUserError(msgNoPlan)
	case errors.Is(err, service.ErrPlanDayNotFound):
		return newUserError(msgPlanDayNotFound)
	default:
		return err
	}
}

func (h *Handler) handleLeaderboard(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.renderLeaderboard(ctx, userID, parsePeriod(args))
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildLeaderboardKeyboard(parsePeriod(args))
		h.send(msg)
		return nil
	}
}

func (h *Handler) renderLeaderboard(ctx context.Context, userID int64, period string) (string, error) {
	device := h.devices.Open(ctx, userID)
	settings := device.Settings.GetOrCreate()

	entries, err := device.Leaderboard.Top(ctx, settings.ExamType, period, 10)
	if err != nil {
		if errors.Is(err, service.ErrLeaderboardUnavailable) {
			return "", newUserError(msgLeaderboardOff)
		}
		return "", fmt.Errorf("query leaderboard: %w", err)
	}

	return buildLeaderboardMessage(entries, settings.ExamType, period, app.Identity(userID)), nil
}

// handleExam sets the exam type or offers the known ones.
func (h *Handler) handleExam(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			msg := newMessage(chatID, md(msgChooseExam))
			msg.ReplyMarkup = buildExamKeyboard()
			h.send(msg)
			return nil
		}

		device := h.devices.Open(ctx, userID)
		if err := device.Settings.UpdateExamType(args); err != nil {
			return newUserError(msgChooseExam)
		}

		h.send(newMessage(chatID, examSetMessage(device.Settings.Settings().ExamType)))
		return nil
	}
}

func examSetMessage(examType string) string {
	return md(fmt.Sprintf("Exam set to %s. Daily plan quota: %d questions.", strings.ToUpper(examType), service.DailyQuota(examType)))
}

func (h *Handler) handleName(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)
		if err := device.Settings.UpdateName(args); err != nil {
			return newUserError(msgUseName)
		}
		h.send(newMessage(chatID, md(fmt.Sprintf("Name updated to %s.", strings.TrimSpace(args)))))
		return nil
	}
}

func (h *Handler) handleDarkMode(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)
		text := msgDarkModeOff
		if device.Settings.ToggleDarkMode() {
			text = msgDarkModeOn
		}
		h.send(newMessage(chatID, md(text)))
		return nil
	}
}

// handleReset asks for confirmation; the reset itself runs in the callback.
func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, md(msgResetConfirm))
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleLogout(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)
		device.Bridge.Flush()
		device.SignOut()
		h.send(newMessage(chatID, md(msgLoggedOut)))
		return nil
	}
}
