package models

import (
	"time"
)

// Metric types the dashboard aggregates.
const (
	MetricPageLoad     = "page_load"
	MetricError        = "error"
	MetricUserActivity = "user_activity"
	MetricSatisfaction = "satisfaction"
	MetricLatency      = "latency"
)

// Metric is a client-reported event. Data holds the raw JSON payload.
type Metric struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    *uint     `gorm:"index"`
	Type      string    `gorm:"not null;size:50;index"`
	Data      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
