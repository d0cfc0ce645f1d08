package store

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/andrewpaige1/memora/models"
)

// Dashboard windows.
const (
	pageLoadWindow     = 7 * 24 * time.Hour
	errorWindow        = time.Hour
	activeUserWindow   = 7 * 24 * time.Hour
	satisfactionWindow = 30 * 24 * time.Hour
	latencyWindow      = 24 * time.Hour
)

func (s *Store) CreateMetric(ctx context.Context, userID *uint, typ string, data json.RawMessage) (*models.Metric, error) {
	m := models.Metric{
		UserID:    userID,
		Type:      typ,
		Data:      string(data),
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, wrap("create metric", err)
	}
	return &m, nil
}

// Dashboard aggregates recent client metrics.
type Dashboard struct {
	AvgPageLoad       float64            `json:"avg_page_load"`
	ErrorCount        int64              `json:"error_count"`
	WeeklyActiveUsers int64              `json:"weekly_active_users"`
	AvgSatisfaction   float64            `json:"avg_satisfaction"`
	AvgLatency        map[string]float64 `json:"avg_latency"`
	Period            map[string]string  `json:"period"`
}

func (s *Store) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.now().UTC()
	d := Dashboard{
		AvgLatency: make(map[string]float64),
		Period: map[string]string{
			"page_load":    "7 days",
			"errors":       "1 hour",
			"users":        "7 days",
			"satisfaction": "30 days",
			"latency":      "24 hours",
		},
	}

	pageLoads, err := s.metricsSince(ctx, models.MetricPageLoad, now.Add(-pageLoadWindow))
	if err != nil {
		return Dashboard{}, err
	}
	d.AvgPageLoad = average(pageLoads, "duration")

	err = s.db.WithContext(ctx).Model(&models.Metric{}).
		Where("type = ? AND created_at > ?", models.MetricError, now.Add(-errorWindow)).
		Count(&d.ErrorCount).Error
	if err != nil {
		return Dashboard{}, wrap("dashboard errors", err)
	}

	err = s.db.WithContext(ctx).Model(&models.Metric{}).
		Where("type = ? AND created_at > ? AND user_id IS NOT NULL", models.MetricUserActivity, now.Add(-activeUserWindow)).
		Distinct("user_id").
		Count(&d.WeeklyActiveUsers).Error
	if err != nil {
		return Dashboard{}, wrap("dashboard active users", err)
	}

	ratings, err := s.metricsSince(ctx, models.MetricSatisfaction, now.Add(-satisfactionWindow))
	if err != nil {
		return Dashboard{}, err
	}
	d.AvgSatisfaction = average(ratings, "rating")

	latencies, err := s.metricsSince(ctx, models.MetricLatency, now.Add(-latencyWindow))
	if err != nil {
		return Dashboard{}, err
	}
	byAction := make(map[string][]map[string]any)
	for _, m := range latencies {
		action, _ := m["action"].(string)
		byAction[action] = append(byAction[action], m)
	}
	for action, ms := range byAction {
		d.AvgLatency[action] = average(ms, "duration")
	}

	return d, nil
}

// metricsSince decodes the data of every metric of typ newer than since.
// Payloads that are not JSON objects are skipped.
func (s *Store) metricsSince(ctx context.Context, typ string, since time.Time) ([]map[string]any, error) {
	var rows []models.Metric
	err := s.db.WithContext(ctx).
		Where("type = ? AND created_at > ?", typ, since).
		Find(&rows).Error
	if err != nil {
		return nil, wrap("dashboard "+typ, err)
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		var data map[string]any
		if err := json.Unmarshal([]byte(r.Data), &data); err != nil {
			continue
		}
		out = append(out, data)
	}
	return out, nil
}

// average of a numeric field, rounded to two decimals. Missing or
// non-numeric values count as 0.
func average(data []map[string]any, field string) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, d := range data {
		sum += number(d[field])
	}
	return math.Round(sum/float64(len(data))*100) / 100
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
