package services

import (
	"context"

	"github.com/disa/mapa/internal/app/roster"
)

// StatsService computes the dashboard aggregates
type StatsService interface {
	Distribution(ctx context.Context) (roster.Distribution, error)
}

type statsServiceImpl struct {
	personnel PersonnelLoader
}

// NewStatsService creates a new stats service instance
func NewStatsService(personnel PersonnelLoader) StatsService {
	return &statsServiceImpl{personnel: personnel}
}

// Distribution aggregates the current personnel list
func (s *statsServiceImpl) Distribution(ctx context.Context) (roster.Distribution, error) {
	list, err := s.personnel.Load(ctx)
	if err != nil {
		return roster.Distribution{}, err
	}
	return roster.Distribute(list), nil
}
