package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Reconcile(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func TestCleanupTokens_UsesClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := new(mockTokens)
	tokens.On("DeleteExpired", now).Return(int64(3), nil)

	s := New(tokens, new(mockReconciler), new(mockReconciler), "@every 1h", "@every 1h")
	s.now = func() time.Time { return now }

	n, err := s.CleanupTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	tokens.AssertExpectations(t)
}

func TestReconcileAggregates_RunsBothOnFailure(t *testing.T) {
	ratings := new(mockReconciler)
	likes := new(mockReconciler)
	boom := errors.New("boom")
	ratings.On("Reconcile").Return(int64(0), boom)
	likes.On("Reconcile").Return(int64(2), nil)

	s := New(new(mockTokens), ratings, likes, "@every 1h", "@every 1h")

	err := s.ReconcileAggregates(context.Background())
	assert.ErrorIs(t, err, boom)
	ratings.AssertExpectations(t)
	likes.AssertExpectations(t)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New(new(mockTokens), new(mockReconciler), new(mockReconciler), "not a schedule", "@every 1h")
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := New(new(mockTokens), new(mockReconciler), new(mockReconciler), "0 0 * * * *", "0 */30 * * * *")
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
