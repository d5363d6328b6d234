package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"peopledir/internal/ratelimit/store/bucket"
)

type ServiceSuite struct {
	suite.Suite
	svc *Service
	ctx context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	svc, err := New(bucket.NewInMemoryBucketStore(), 5, time.Minute)
	s.Require().NoError(err)
	s.svc = svc
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestNewValidation() {
	_, err := New(nil, 5, time.Minute)
	s.Error(err)

	_, err = New(bucket.NewInMemoryBucketStore(), 0, time.Minute)
	s.Error(err)

	_, err = New(bucket.NewInMemoryBucketStore(), 5, 0)
	s.Error(err)
}

func (s *ServiceSuite) TestQuotaEnforcement() {
	for i := 0; i < 5; i++ {
		result, err := s.svc.Allow(s.ctx, "10.0.0.1")
		s.Require().NoError(err)
		s.True(result.Allowed, "request %d should be admitted", i+1)
	}

	result, err := s.svc.Allow(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(5, result.Limit)

	// A different client key is unaffected.
	result, err = s.svc.Allow(s.ctx, "10.0.0.2")
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *ServiceSuite) TestKeySanitization() {
	// Colons in client-controlled keys must not create separate buckets.
	for i := 0; i < 5; i++ {
		_, err := s.svc.Allow(s.ctx, "2001:db8::1")
		s.Require().NoError(err)
	}

	count, err := s.svc.CurrentCount(s.ctx, "2001:db8::1")
	s.Require().NoError(err)
	s.Equal(5, count)

	result, err := s.svc.Allow(s.ctx, "2001:db8::1")
	s.Require().NoError(err)
	s.False(result.Allowed)
}

func (s *ServiceSuite) TestEmptyKeyBucketsAsUnknownClient() {
	for i := 0; i < 5; i++ {
		_, err := s.svc.Allow(s.ctx, "")
		s.Require().NoError(err)
	}

	count, err := s.svc.CurrentCount(s.ctx, "unknown_client")
	s.Require().NoError(err)
	s.Equal(5, count)
}

func (s *ServiceSuite) TestReset() {
	for i := 0; i < 5; i++ {
		_, err := s.svc.Allow(s.ctx, "10.0.0.3")
		s.Require().NoError(err)
	}

	s.Require().NoError(s.svc.Reset(s.ctx, "10.0.0.3"))

	result, err := s.svc.Allow(s.ctx, "10.0.0.3")
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *ServiceSuite) TestAccessors() {
	s.Equal(5, s.svc.Limit())
	s.Equal(time.Minute, s.svc.Window())
}
