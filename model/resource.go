package model

// ProjectAllocation is one row of the weekly resource summary.
type ProjectAllocation struct {
	ProjectID             string  `json:"projectId"`
	Title                 string  `json:"title"`
	AllocatedHoursPerWeek float64 `json:"allocatedHoursPerWeek"`
	RoutineHoursPerWeek   float64 `json:"routineHoursPerWeek"`
}

type ResourceSummary struct {
	WeeklyCapacity     float64             `json:"weeklyCapacity"`
	TotalAllocated     float64             `json:"totalAllocated"`
	Utilization        float64             `json:"utilization"`
	UtilizationPercent int                 `json:"utilizationPercent"`
	Projects           []ProjectAllocation `json:"projects"`
}
