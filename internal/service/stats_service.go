package service

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
)

// StatsService totals the collections for branch listings and dashboards.
type StatsService struct {
	students recordStore[models.Student]
	teachers recordStore[models.Teacher]
	groups   recordStore[models.Group]
	payments recordStore[models.Payment]
}

// NewStatsService constructs a StatsService.
func NewStatsService(students recordStore[models.Student], teachers recordStore[models.Teacher], groups recordStore[models.Group], payments recordStore[models.Payment]) *StatsService {
	return &StatsService{students: students, teachers: teachers, groups: groups, payments: payments}
}

// Stats implements statsSource.
func (s *StatsService) Stats(ctx context.Context) (models.BranchStats, error) {
	students, err := listRecords(ctx, s.students)
	if err != nil {
		return models.BranchStats{}, err
	}
	teachers, err := listRecords(ctx, s.teachers)
	if err != nil {
		return models.BranchStats{}, err
	}
	groups, err := listRecords(ctx, s.groups)
	if err != nil {
		return models.BranchStats{}, err
	}
	payments, err := listRecords(ctx, s.payments)
	if err != nil {
		return models.BranchStats{}, err
	}
	return ComputeStats(students, teachers, groups, payments), nil
}
