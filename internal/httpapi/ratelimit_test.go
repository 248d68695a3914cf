package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/draftverse/draftroom/internal/common/clock/mocks"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClock := clockMocks.NewMockClock(ctrl)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(now).AnyTimes()

	limiter := NewRateLimiter(3, time.Minute, mockClock)

	assert.True(t, limiter.Allow("user-1"))
	assert.True(t, limiter.Allow("user-1"))
	assert.True(t, limiter.Allow("user-1"))
	assert.False(t, limiter.Allow("user-1"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClock := clockMocks.NewMockClock(ctrl)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(now).AnyTimes()

	limiter := NewRateLimiter(1, time.Minute, mockClock)

	assert.True(t, limiter.Allow("user-1"))
	assert.False(t, limiter.Allow("user-1"))
	assert.True(t, limiter.Allow("user-2"))
}

func TestRateLimiterWindowResets(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClock := clockMocks.NewMockClock(ctrl)

	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	current := start
	mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return current
	}).AnyTimes()

	limiter := NewRateLimiter(1, time.Minute, mockClock)

	assert.True(t, limiter.Allow("user-1"))
	assert.False(t, limiter.Allow("user-1"))

	// Still inside the window
	current = start.Add(59 * time.Second)
	assert.False(t, limiter.Allow("user-1"))

	// Window boundary resets the counter
	current = start.Add(time.Minute)
	assert.True(t, limiter.Allow("user-1"))
	assert.False(t, limiter.Allow("user-1"))
}

func TestRateLimiterDefaultsToRealClock(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, nil)

	assert.True(t, limiter.Allow("user-1"))
	assert.True(t, limiter.Allow("user-1"))
	assert.False(t, limiter.Allow("user-1"))
}
