package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

func TestSettings_GetOrCreatePersistsDefaults(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 12))
	assert.False(t, d.store.Has(storage.KeyUserSettings))

	settings := d.settings.GetOrCreate()

	assert.Equal(t, entities.NewUserSettings(), settings)
	assert.True(t, d.store.Has(storage.KeyUserSettings))
}

func TestSettings_Update(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 12))

	require.NoError(t, d.settings.UpdateName("  Ravi "))
	require.NoError(t, d.settings.UpdateExamType("NEET"))

	assert.Equal(t, entities.UserSettings{Name: "Ravi", ExamType: "neet"}, d.settings.Settings())
	assert.ErrorIs(t, d.settings.UpdateName(" "), ErrEmptyName)
	assert.ErrorIs(t, d.settings.UpdateExamType(""), ErrEmptyExamType)
}

func TestSettings_ToggleDarkMode(t *testing.T) {
	d := newTestDevice(at("2024-03-10", 12))

	assert.True(t, d.settings.ToggleDarkMode())
	assert.True(t, d.settings.DarkMode())
	assert.False(t, d.settings.ToggleDarkMode())
}
