package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/draftverse/draftroom/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

// saveUser persists a minimal user record
func (s *RedisRepositoryTestSuite) saveUser(id, username string) {
	err := s.repo.SaveUser(s.ctx, &SaveUserInput{
		User: &models.User{
			ID:       id,
			Username: username,
		},
	})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetUser() {
	s.saveUser("user-1", "alice")

	user, err := s.repo.GetUser(s.ctx, &GetUserInput{UserID: "user-1"})
	s.Require().NoError(err)

	s.Equal("user-1", user.ID)
	s.Equal("alice", user.Username)
	s.Zero(user.Wins)
	s.Zero(user.Losses)
}

func (s *RedisRepositoryTestSuite) TestGetUserNotFound() {
	_, err := s.repo.GetUser(s.ctx, &GetUserInput{UserID: "missing"})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *RedisRepositoryTestSuite) TestRecordOutcome() {
	s.saveUser("user-1", "alice")

	for i := 0; i < 3; i++ {
		err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
			UserID:  "user-1",
			Outcome: OutcomeWin,
		})
		s.Require().NoError(err)
	}

	err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
		UserID:  "user-1",
		Outcome: OutcomeLoss,
	})
	s.Require().NoError(err)

	user, err := s.repo.GetUser(s.ctx, &GetUserInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Equal(3, user.Wins)
	s.Equal(1, user.Losses)
}

func (s *RedisRepositoryTestSuite) TestRecordOutcomeRejectsUnknown() {
	err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
		UserID:  "user-1",
		Outcome: Outcome("draw"),
	})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestSaveUserDoesNotResetCounters() {
	s.saveUser("user-1", "alice")

	err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
		UserID:  "user-1",
		Outcome: OutcomeWin,
	})
	s.Require().NoError(err)

	// Re-saving the profile must leave the counters alone
	s.saveUser("user-1", "alice-renamed")

	user, err := s.repo.GetUser(s.ctx, &GetUserInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Equal("alice-renamed", user.Username)
	s.Equal(1, user.Wins)
}

func (s *RedisRepositoryTestSuite) TestGetLeaderboard() {
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("user-%d", i)
		s.saveUser(id, fmt.Sprintf("player%d", i))

		// user-1 gets one win, user-2 two, user-3 three
		for j := 0; j < i; j++ {
			err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
				UserID:  id,
				Outcome: OutcomeWin,
			})
			s.Require().NoError(err)
		}
	}

	out, err := s.repo.GetLeaderboard(s.ctx, &GetLeaderboardInput{})
	s.Require().NoError(err)

	s.Require().Len(out.Users, 3)
	s.Equal("user-3", out.Users[0].ID)
	s.Equal("user-2", out.Users[1].ID)
	s.Equal("user-1", out.Users[2].ID)
	s.Equal(3, out.Users[0].Wins)
}

func (s *RedisRepositoryTestSuite) TestGetLeaderboardLimit() {
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("user-%d", i)
		s.saveUser(id, id)
		err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
			UserID:  id,
			Outcome: OutcomeWin,
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.GetLeaderboard(s.ctx, &GetLeaderboardInput{Limit: 2})
	s.Require().NoError(err)
	s.Len(out.Users, 2)
}

func (s *RedisRepositoryTestSuite) TestGetLeaderboardIncludesLosers() {
	s.saveUser("user-1", "alice")

	err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
		UserID:  "user-1",
		Outcome: OutcomeLoss,
	})
	s.Require().NoError(err)

	out, err := s.repo.GetLeaderboard(s.ctx, &GetLeaderboardInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Users, 1)
	s.Equal(0, out.Users[0].Wins)
	s.Equal(1, out.Users[0].Losses)
}

func (s *RedisRepositoryTestSuite) TestGetLeaderboardSkipsDeletedUsers() {
	s.saveUser("user-1", "alice")
	err := s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
		UserID:  "user-1",
		Outcome: OutcomeWin,
	})
	s.Require().NoError(err)

	// A counter entry without a profile record is skipped
	err = s.repo.RecordOutcome(s.ctx, &RecordOutcomeInput{
		UserID:  "ghost",
		Outcome: OutcomeWin,
	})
	s.Require().NoError(err)

	out, err := s.repo.GetLeaderboard(s.ctx, &GetLeaderboardInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Users, 1)
	s.Equal("user-1", out.Users[0].ID)
}
