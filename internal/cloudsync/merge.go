package cloudsync

import "github.com/aliskhannn/exam-prep/internal/domain/entities"

// MergeGamification combines two records of the same user field by field.
// Counters take the maximum, the later active date wins and achievements are
// unioned by id with local entries first and winning ties.
func MergeGamification(local, remote entities.GamificationState) entities.GamificationState {
	merged := entities.GamificationState{
		XP:             max(local.XP, remote.XP),
		Level:          max(local.Level, remote.Level),
		Streak:         max(local.Streak, remote.Streak),
		LongestStreak:  max(local.LongestStreak, remote.LongestStreak),
		Points:         max(local.Points, remote.Points),
		LastActiveDate: local.LastActiveDate,
	}
	if remote.LastActiveDate > merged.LastActiveDate {
		merged.LastActiveDate = remote.LastActiveDate
	}

	merged.Achievements = make([]entities.Achievement, 0, len(local.Achievements)+len(remote.Achievements))
	seen := make(map[string]struct{}, cap(merged.Achievements))
	for _, list := range [][]entities.Achievement{local.Achievements, remote.Achievements} {
		for _, a := range list {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			merged.Achievements = append(merged.Achievements, a)
		}
	}

	merged.Normalize()
	return merged
}
