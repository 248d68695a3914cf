package draft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/draftverse/draftroom/internal/models"
)

type SamplerTestSuite struct {
	suite.Suite
	pool []*models.Character
}

func (s *SamplerTestSuite) SetupTest() {
	s.pool = make([]*models.Character, 0, 20)
	for i := 1; i <= 20; i++ {
		universe := "Marvel"
		if i%2 == 0 {
			universe = "DC"
		}
		s.pool = append(s.pool, &models.Character{
			ID:       i,
			Name:     fmt.Sprintf("Hero %d", i),
			Universe: universe,
		})
	}
}

func TestSamplerTestSuite(t *testing.T) {
	suite.Run(t, new(SamplerTestSuite))
}

func (s *SamplerTestSuite) TestSampleRespectsFilters() {
	sampler := NewSampler(&SamplerConfig{Seed: 1})
	excluded := map[int]bool{2: true, 4: true}

	for i := 0; i < 100; i++ {
		c, ok := sampler.Sample(s.pool, []string{"DC"}, excluded)
		s.Require().True(ok)
		s.Equal("DC", c.Universe)
		s.False(excluded[c.ID])
	}
}

func (s *SamplerTestSuite) TestSampleEventuallyCoversPool() {
	sampler := NewSampler(&SamplerConfig{Seed: 1})

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		c, ok := sampler.Sample(s.pool, nil, nil)
		s.Require().True(ok)
		seen[c.ID] = true
	}

	s.Len(seen, len(s.pool))
}

func (s *SamplerTestSuite) TestSampleExhausted() {
	sampler := NewSampler(&SamplerConfig{Seed: 1})
	excluded := make(map[int]bool)
	for _, c := range s.pool {
		excluded[c.ID] = true
	}

	_, ok := sampler.Sample(s.pool, nil, excluded)
	s.False(ok)
}

func (s *SamplerTestSuite) TestSeededSamplersAgree() {
	a := NewSampler(&SamplerConfig{Seed: 99})
	b := NewSampler(&SamplerConfig{Seed: 99})

	for i := 0; i < 50; i++ {
		ca, _ := a.Sample(s.pool, nil, nil)
		cb, _ := b.Sample(s.pool, nil, nil)
		s.Equal(ca.ID, cb.ID)
	}
}
