package service

import (
	"context"
	"time"

	"note-service-be/internal/repository/contract"
	"note-service-be/pkg/health"
)

type ProcessSampler interface {
	Memory() health.MemorySnapshot
	Uptime() time.Duration
	Now() time.Time
}

type IHealthService interface {
	Check(ctx context.Context) *health.Report
}

type healthService struct {
	store   contract.ConnectionReporter
	sampler ProcessSampler
}

func NewHealthService(store contract.ConnectionReporter, sampler ProcessSampler) IHealthService {
	return &healthService{
		store:   store,
		sampler: sampler,
	}
}

func (s *healthService) Check(ctx context.Context) *health.Report {
	return health.Aggregate(health.Input{
		Driver:    s.store.Driver(),
		State:     s.store.State().String(),
		Memory:    s.sampler.Memory(),
		Uptime:    s.sampler.Uptime(),
		Timestamp: s.sampler.Now(),
	})
}
