package services

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"lifedashboard/model"
)

const DefaultWeeklyCapacity = 20.0

// maxUtilization caps the displayed utilization at 200%.
const maxUtilization = 2.0

// ResourceService compares the weekly capacity setting with the hours
// allocated to the caller's projects. Only the capacity is stored.
type ResourceService struct {
	store           DocumentStore
	projects        *ProjectService
	defaultCapacity float64
	logger          *slog.Logger
}

func NewResourceService(store DocumentStore, projects *ProjectService, defaultCapacity float64, logger *slog.Logger) *ResourceService {
	if logger == nil {
		logger = slog.Default()
	}
	if !validHours(defaultCapacity) {
		defaultCapacity = DefaultWeeklyCapacity
	}
	return &ResourceService{store: store, projects: projects, defaultCapacity: defaultCapacity, logger: logger}
}

func (s *ResourceService) Capacity(ctx context.Context, uid string) (float64, error) {
	doc, err := s.store.Get(ctx, UserSettingsCollection(uid), capacityDocID)
	if errors.Is(err, ErrNotFound) {
		return s.defaultCapacity, nil
	}
	if err != nil {
		s.logger.Error("load capacity failed", slog.String("userId", uid), slog.String("error", err.Error()))
		return 0, err
	}
	v, ok := toFloat(doc.Data["weeklyCapacity"])
	if !ok || !validHours(v) {
		return s.defaultCapacity, nil
	}
	return v, nil
}

func (s *ResourceService) SetCapacity(ctx context.Context, uid string, capacity float64) error {
	if !validHours(capacity) {
		return ErrInvalidHours
	}
	err := s.store.Set(ctx, UserSettingsCollection(uid), capacityDocID, map[string]interface{}{
		"weeklyCapacity": capacity,
	}, true)
	if err != nil {
		s.logger.Error("save capacity failed", slog.String("userId", uid), slog.String("error", err.Error()))
	}
	return err
}

func (s *ResourceService) Summary(ctx context.Context, uid string) (model.ResourceSummary, error) {
	capacity, err := s.Capacity(ctx, uid)
	if err != nil {
		return model.ResourceSummary{}, err
	}
	projects, err := s.projects.List(ctx, uid)
	if err != nil {
		return model.ResourceSummary{}, err
	}
	return Summarize(capacity, projects), nil
}

// Summarize builds the allocation summary for the given projects.
func Summarize(capacity float64, projects []model.Project) model.ResourceSummary {
	summary := model.ResourceSummary{
		WeeklyCapacity: capacity,
		Projects:       make([]model.ProjectAllocation, 0, len(projects)),
	}
	for _, p := range projects {
		summary.TotalAllocated += p.AllocatedHoursPerWeek
		summary.Projects = append(summary.Projects, model.ProjectAllocation{
			ProjectID:             p.ID,
			Title:                 p.Title,
			AllocatedHoursPerWeek: p.AllocatedHoursPerWeek,
			RoutineHoursPerWeek:   RoutineHours(p.Routines),
		})
	}
	summary.Utilization = Utilization(summary.TotalAllocated, capacity)
	if capacity > 0 {
		summary.UtilizationPercent = int(math.Round(summary.TotalAllocated / capacity * 100))
	}
	return summary
}

// Utilization is allocated/capacity capped at 2, or 0 without capacity.
func Utilization(allocated, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return math.Min(allocated/capacity, maxUtilization)
}
