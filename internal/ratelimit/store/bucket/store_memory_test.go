package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 5
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	ctx   context.Context
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.store = NewInMemoryBucketStore()
	s.ctx = context.Background()
}

// backdate shifts every stored timestamp for key into the past.
func (s *InMemoryBucketStoreSuite) backdate(key string, by time.Duration) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sw := s.store.buckets[key]
	s.Require().NotNil(sw)
	for i := range sw.timestamps {
		sw.timestamps[i] = sw.timestamps[i].Add(-by)
	}
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("first request allowed", func() {
		result, err := s.store.Allow(s.ctx, "search:ip:first", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("requests up to limit allowed, next denied", func() {
		for i := 0; i < testLimit; i++ {
			result, err := s.store.Allow(s.ctx, "search:ip:limit", testLimit, testWindow)
			require.NoError(s.T(), err)
			require.True(s.T(), result.Allowed, "request %d should be admitted", i+1)
		}

		result, err := s.store.Allow(s.ctx, "search:ip:limit", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Positive(result.RetryAfter)
	})

	s.Run("keys are independent", func() {
		for i := 0; i < testLimit; i++ {
			_, err := s.store.Allow(s.ctx, "search:ip:noisy", testLimit, testWindow)
			s.Require().NoError(err)
		}

		result, err := s.store.Allow(s.ctx, "search:ip:quiet", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})

	s.Run("after window expires requests allowed again", func() {
		for i := 0; i < testLimit; i++ {
			_, err := s.store.Allow(s.ctx, "search:ip:expired", testLimit, testWindow)
			s.Require().NoError(err)
		}
		s.backdate("search:ip:expired", testWindow+time.Second)

		result, err := s.store.Allow(s.ctx, "search:ip:expired", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("partial expiry frees exactly the stale slots", func() {
		for i := 0; i < testLimit; i++ {
			_, err := s.store.Allow(s.ctx, "search:ip:partial", testLimit, testWindow)
			s.Require().NoError(err)
		}

		// Age two of the five entries past the window.
		s.store.mu.Lock()
		sw := s.store.buckets["search:ip:partial"]
		sw.timestamps[0] = sw.timestamps[0].Add(-testWindow - time.Second)
		sw.timestamps[1] = sw.timestamps[1].Add(-testWindow - time.Second)
		s.store.mu.Unlock()

		result, err := s.store.Allow(s.ctx, "search:ip:partial", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(1, result.Remaining)
	})
}

// TestAllowConcurrent verifies the hard limit holds under parallel callers:
// admission and recording share one critical section, so concurrent requests
// can never push a key past the quota.
func (s *InMemoryBucketStoreSuite) TestAllowConcurrent() {
	const workers = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.store.Allow(s.ctx, "search:ip:race", testLimit, testWindow)
			require.NoError(s.T(), err)
			if result.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(testLimit, admitted)

	count, err := s.store.GetCurrentCount(s.ctx, "search:ip:race")
	s.Require().NoError(err)
	s.Equal(testLimit, count)
}

func (s *InMemoryBucketStoreSuite) TestReset() {
	for i := 0; i < testLimit; i++ {
		_, err := s.store.Allow(s.ctx, "search:ip:reset", testLimit, testWindow)
		s.Require().NoError(err)
	}

	s.Require().NoError(s.store.Reset(s.ctx, "search:ip:reset"))

	count, err := s.store.GetCurrentCount(s.ctx, "search:ip:reset")
	s.Require().NoError(err)
	s.Equal(0, count)

	result, err := s.store.Allow(s.ctx, "search:ip:reset", testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *InMemoryBucketStoreSuite) TestGetCurrentCount() {
	count, err := s.store.GetCurrentCount(s.ctx, "search:ip:unseen")
	s.Require().NoError(err)
	s.Equal(0, count)

	for i := 0; i < 3; i++ {
		_, err := s.store.Allow(s.ctx, "search:ip:counted", testLimit, testWindow)
		s.Require().NoError(err)
	}

	count, err = s.store.GetCurrentCount(s.ctx, "search:ip:counted")
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *InMemoryBucketStoreSuite) TestEvictIdle() {
	s.Run("removes keys with fully expired windows", func() {
		_, err := s.store.Allow(s.ctx, "search:ip:stale", testLimit, testWindow)
		s.Require().NoError(err)
		_, err = s.store.Allow(s.ctx, "search:ip:fresh", testLimit, testWindow)
		s.Require().NoError(err)

		s.backdate("search:ip:stale", testWindow+time.Second)

		evicted := s.store.EvictIdle(s.ctx, time.Now())
		s.Equal(1, evicted)

		s.store.mu.RLock()
		_, staleExists := s.store.buckets["search:ip:stale"]
		_, freshExists := s.store.buckets["search:ip:fresh"]
		s.store.mu.RUnlock()
		s.False(staleExists)
		s.True(freshExists)
	})

	s.Run("eviction does not reset active counters", func() {
		for i := 0; i < 3; i++ {
			_, err := s.store.Allow(s.ctx, "search:ip:active", testLimit, testWindow)
			s.Require().NoError(err)
		}

		s.store.EvictIdle(s.ctx, time.Now())

		count, err := s.store.GetCurrentCount(s.ctx, "search:ip:active")
		s.Require().NoError(err)
		s.Equal(3, count)
	})
}
