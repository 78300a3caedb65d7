package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
	"github.com/mcoot/playerregistry/internal/storage/memory"
	"github.com/mcoot/playerregistry/internal/storage/storagetest"
	"github.com/mcoot/playerregistry/internal/testutil"
)

var errBackendDown = errors.New("connection refused")

// flakyStorage fails every call while down is set
type flakyStorage struct {
	*memory.Storage
	down  bool
	calls int
}

func (f *flakyStorage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	f.calls++
	if f.down {
		return nil, errBackendDown
	}
	return f.Storage.GetPlayer(ctx, id)
}

func (f *flakyStorage) CountPlayers(ctx context.Context) (int64, error) {
	f.calls++
	if f.down {
		return 0, errBackendDown
	}
	return f.Storage.CountPlayers(ctx)
}

type BreakerSuite struct {
	suite.Suite
	backend *flakyStorage
	storage *Storage
	ctx     context.Context
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond

	s.backend = &flakyStorage{Storage: memory.New()}
	s.storage = New("test", s.backend, cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *BreakerSuite) trip() {
	s.backend.down = true
	for range DefaultConfig().MinRequests {
		_, err := s.storage.CountPlayers(s.ctx)
		s.Require().ErrorIs(err, errBackendDown)
	}
	s.Require().Equal(gobreaker.StateOpen, s.storage.State())
}

func (s *BreakerSuite) TestPassesResultsThrough() {
	player := storagetest.NewPlayer("Alice", 0, 0)
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Name)

	count, err := s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *BreakerSuite) TestNotFoundDoesNotTrip() {
	for range 10 {
		_, err := s.storage.GetPlayer(s.ctx, 42)
		s.Require().ErrorIs(err, model.ErrPlayerNotFound)
	}
	s.Equal(gobreaker.StateClosed, s.storage.State())
}

func (s *BreakerSuite) TestFailuresTripBreaker() {
	s.trip()
	callsWhenOpen := s.backend.calls

	_, err := s.storage.GetPlayer(s.ctx, 1)
	s.ErrorIs(err, storage.ErrUnavailable)
	s.Equal(callsWhenOpen, s.backend.calls, "open breaker must not reach the backend")
}

func (s *BreakerSuite) TestRecoversAfterTimeout() {
	s.trip()
	s.backend.down = false

	time.Sleep(30 * time.Millisecond)

	_, err := s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(gobreaker.StateClosed, s.storage.State())
}

func (s *BreakerSuite) TestHalfOpenFailureReopens() {
	s.trip()

	time.Sleep(30 * time.Millisecond)

	_, err := s.storage.CountPlayers(s.ctx)
	s.ErrorIs(err, errBackendDown)
	s.Equal(gobreaker.StateOpen, s.storage.State())
}
