package service

import (
	"errors"
	"strings"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrEmptyExamType = errors.New("exam type must not be empty")
)

type SettingsService struct {
	repository SettingsRepository
}

func NewSettingsService(repository SettingsRepository) *SettingsService {
	return &SettingsService{repository: repository}
}

// GetOrCreate returns stored settings and persists defaults on first use.
func (s *SettingsService) GetOrCreate() entities.UserSettings {
	settings, ok := s.repository.Get()
	if !ok {
		s.repository.Save(settings)
	}
	return settings
}

// Settings implements SettingsReader without persisting defaults.
func (s *SettingsService) Settings() entities.UserSettings {
	settings, _ := s.repository.Get()
	return settings
}

func (s *SettingsService) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	settings := s.GetOrCreate()
	settings.Name = name
	s.repository.Save(settings)
	return nil
}

func (s *SettingsService) UpdateExamType(examType string) error {
	examType = strings.ToLower(strings.TrimSpace(examType))
	if examType == "" {
		return ErrEmptyExamType
	}

	settings := s.GetOrCreate()
	settings.ExamType = examType
	s.repository.Save(settings)
	return nil
}

func (s *SettingsService) DarkMode() bool {
	return s.repository.DarkMode()
}

// ToggleDarkMode flips the dark mode flag and returns the new value.
func (s *SettingsService) ToggleDarkMode() bool {
	enabled := !s.repository.DarkMode()
	s.repository.SetDarkMode(enabled)
	return enabled
}
