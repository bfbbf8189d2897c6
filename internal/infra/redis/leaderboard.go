package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

const (
	keyPrefix = "leaderboard:"
	weekTTL   = 14 * 24 * time.Hour
	dayTTL    = 48 * time.Hour

	maxUpsertAttempts = 5
)

// Leaderboard ranks users per exam type in Redis sorted sets.
//
// The all-time board is scored by total XP. The week and day boards are scored
// by XP gained inside the period, derived from the previous entry of the user.
type Leaderboard struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewLeaderboard(client redis.UniversalClient) *Leaderboard {
	return &Leaderboard{
		client: client,
		now:    time.Now,
	}
}

func entryKey(identity string) string {
	return keyPrefix + "entry:" + identity
}

func boardKey(examType, period string, at time.Time) string {
	examType = normalizeExam(examType)
	at = at.UTC()

	switch period {
	case entities.PeriodWeek:
		year, week := at.ISOWeek()
		return fmt.Sprintf("%s%s:week:%04d-%02d", keyPrefix, examType, year, week)
	case entities.PeriodDay:
		return fmt.Sprintf("%s%s:day:%s", keyPrefix, examType, entities.DateKey(at))
	default:
		return fmt.Sprintf("%s%s:all", keyPrefix, examType)
	}
}

func normalizeExam(examType string) string {
	examType = strings.ToLower(strings.TrimSpace(examType))
	if examType == "" {
		return entities.DefaultExamType
	}
	return examType
}

func previous(ctx context.Context, tx *redis.Tx, identity string) (*entities.LeaderboardEntry, error) {
	raw, err := tx.Get(ctx, entryKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	var entry entities.LeaderboardEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt entry is replaced below.
		return nil, nil
	}
	return &entry, nil
}

// Upsert stores entry for identity and updates every board of its exam type.
// The entry key is watched, so the XP gained is computed against the entry that
// is actually replaced. Entries older than the stored one are ignored.
func (l *Leaderboard) Upsert(ctx context.Context, identity string, entry entities.LeaderboardEntry) error {
	entry.ExamType = normalizeExam(entry.ExamType)
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = l.now()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	update := func(tx *redis.Tx) error {
		prev, err := previous(ctx, tx, identity)
		if err != nil {
			return err
		}
		if prev != nil && entry.UpdatedAt.Before(prev.UpdatedAt) {
			return nil
		}

		gained := entry.XP
		if prev != nil {
			gained = entry.XP - prev.XP
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if prev != nil && prev.ExamType != entry.ExamType {
				pipe.ZRem(ctx, boardKey(prev.ExamType, entities.PeriodAllTime, entry.UpdatedAt), identity)
			}

			pipe.ZAdd(ctx, boardKey(entry.ExamType, entities.PeriodAllTime, entry.UpdatedAt), redis.Z{
				Score:  float64(entry.XP),
				Member: identity,
			})

			if gained > 0 {
				week := boardKey(entry.ExamType, entities.PeriodWeek, entry.UpdatedAt)
				pipe.ZIncrBy(ctx, week, float64(gained), identity)
				pipe.Expire(ctx, week, weekTTL)

				day := boardKey(entry.ExamType, entities.PeriodDay, entry.UpdatedAt)
				pipe.ZIncrBy(ctx, day, float64(gained), identity)
				pipe.Expire(ctx, day, dayTTL)
			}

			pipe.Set(ctx, entryKey(identity), payload, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
		err = l.client.Watch(ctx, update, entryKey(identity))
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	return nil
}

// Query returns the top limit entries of examType for period, best first.
// For the week and day boards XP holds the XP gained inside the period.
func (l *Leaderboard) Query(ctx context.Context, examType, period string, limit int) ([]entities.RankedEntry, error) {
	if limit <= 0 {
		return []entities.RankedEntry{}, nil
	}

	members, err := l.client.ZRevRangeWithScores(ctx, boardKey(examType, period, l.now()), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("range board: %w", err)
	}
	if len(members) == 0 {
		return []entities.RankedEntry{}, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		keys = append(keys, entryKey(fmt.Sprint(m.Member)))
	}

	values, err := l.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}

	ranked := make([]entities.RankedEntry, 0, len(members))
	for i, m := range members {
		identity := fmt.Sprint(m.Member)

		var entry entities.LeaderboardEntry
		if s, ok := values[i].(string); ok {
			_ = json.Unmarshal([]byte(s), &entry)
		}
		entry.XP = int(m.Score)
		if entry.ExamType == "" {
			entry.ExamType = normalizeExam(examType)
		}

		ranked = append(ranked, entities.RankedEntry{
			LeaderboardEntry: entry,
			Identity:         identity,
			Rank:             i + 1,
		})
	}
	return ranked, nil
}
