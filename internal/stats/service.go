package stats

import (
	"context"
	"fmt"

	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
)

// Overview is the dashboard snapshot: raw bucket counts, no trends.
type Overview struct {
	Pools       map[string]int64 `json:"pools"`
	Requests    map[string]int64 `json:"requests"`
	Technicians map[string]int64 `json:"technicians"`
	Reports     int64            `json:"reports"`
}

// Service defines the aggregate read surface.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	repo Repository
}

// NewService builds the stats service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	pools, err := s.repo.PoolCountsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pools")
	}
	requests, err := s.repo.RequestCountsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count service requests")
	}
	technicians, err := s.repo.TechnicianCountsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count technicians")
	}
	reports, err := s.repo.ReportCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count service reports")
	}

	return &Overview{
		Pools:       bucketMap(pools),
		Requests:    bucketMap(requests),
		Technicians: bucketMap(technicians),
		Reports:     reports,
	}, nil
}

func bucketMap(counts []StatusCount) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for _, bucket := range counts {
		out[bucket.Status] = bucket.Count
	}
	return out
}
