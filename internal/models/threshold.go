package models

import "time"

// AttainmentThreshold is one percentage cut point of the threshold ladder.
type AttainmentThreshold struct {
	ID         string  `db:"id" json:"id"`
	Percentage float64 `db:"percentage" json:"percentage"`
}

// ThresholdConfig is the per-course attainment configuration, loaded and
// saved as a unit. COThreshold drives the N-point ladder scale,
// PassingThreshold the absolute scale; the two stay independent.
type ThresholdConfig struct {
	CourseID         string                `db:"course_id" json:"course_id"`
	COThreshold      float64               `db:"co_threshold" json:"co_threshold"`
	PassingThreshold float64               `db:"passing_threshold" json:"passing_threshold"`
	Thresholds       []AttainmentThreshold `json:"attainment_thresholds"`
	UpdatedAt        time.Time             `db:"updated_at" json:"updated_at"`
}
