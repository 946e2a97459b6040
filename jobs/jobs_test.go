package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitplan/fitplan_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistrationStore struct {
	active  []models.UserGymRegistration
	updates map[uint]map[string]any
	failIDs map[uint]bool
}

func (s *stubRegistrationStore) ListActiveRegistrations(context.Context) ([]models.UserGymRegistration, error) {
	return s.active, nil
}

func (s *stubRegistrationStore) UpdateRegistration(_ context.Context, id uint, fields map[string]any) (*models.UserGymRegistration, error) {
	if s.failIDs[id] {
		return nil, errors.New("row locked")
	}
	if s.updates == nil {
		s.updates = map[uint]map[string]any{}
	}
	s.updates[id] = fields
	return &models.UserGymRegistration{ID: id}, nil
}

func TestNextDay(t *testing.T) {
	tests := []struct {
		name         string
		registration models.UserGymRegistration
		want         map[string]any
	}{
		{
			name:         "days left",
			registration: models.UserGymRegistration{RegisteredDays: 30, RemainingDays: 10, RegisteredSessions: 8, RemainingSessions: 3},
			want:         map[string]any{"remaining_days": 9},
		},
		{
			name:         "last day",
			registration: models.UserGymRegistration{RegisteredDays: 30, RemainingDays: 1, RegisteredSessions: 8, RemainingSessions: 3},
			want:         map[string]any{"remaining_days": 0, "is_expired": true},
		},
		{
			name:         "sessions used up",
			registration: models.UserGymRegistration{RegisteredDays: 30, RemainingDays: 5, RegisteredSessions: 8, RemainingSessions: 0},
			want:         map[string]any{"remaining_days": 4, "is_expired": true},
		},
		{
			name:         "session only plan",
			registration: models.UserGymRegistration{RegisteredSessions: 10, RemainingSessions: 4},
			want:         map[string]any{},
		},
		{
			name:         "day only plan",
			registration: models.UserGymRegistration{RegisteredDays: 7, RemainingDays: 7},
			want:         map[string]any{"remaining_days": 6},
		},
		{
			name:         "unlimited plan",
			registration: models.UserGymRegistration{},
			want:         map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextDay(tt.registration))
		})
	}
}

func TestSweepRegistrations(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &stubRegistrationStore{
		active: []models.UserGymRegistration{
			{ID: 1, RegisteredDays: 30, RemainingDays: 1},
			{ID: 2, RegisteredDays: 30, RemainingDays: 20},
			{ID: 3, RegisteredSessions: 5, RemainingSessions: 2},
			{ID: 4, RegisteredDays: 10, RemainingDays: 1},
		},
		failIDs: map[uint]bool{4: true},
	}

	expired, err := sweepRegistrations(context.Background(), store, now)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	require.Contains(t, store.updates, uint(1))
	assert.Equal(t, true, store.updates[1]["is_expired"])
	assert.Equal(t, now, store.updates[1]["updated_at"])
	assert.Equal(t, 19, store.updates[2]["remaining_days"])
	assert.NotContains(t, store.updates, uint(3))
}

func TestReminderBodyEscapesCoachName(t *testing.T) {
	body := reminderBody(`<script>alert("x")</script>`, 2, 1)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "2 meal and 1 exercise")
}
