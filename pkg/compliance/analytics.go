package compliance

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sigat/asset-registry/pkg/models"
)

// trendDays is the window of the daily detection trend.
const trendDays = 30

// TrendPoint is one day of the detection trend. Days without
// detections are present with a zero count.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Analytics aggregates the warning population for dashboards.
type Analytics struct {
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
	Trend      []TrendPoint   `json:"trend"`
}

// Analytics returns warning counts by status and category plus the
// daily detection trend over the last 30 days.
func (s *WarningStore) Analytics() (*Analytics, error) {
	byStatus, err := s.countBy("status")
	if err != nil {
		return nil, err
	}
	byCategory, err := s.countBy("category")
	if err != nil {
		return nil, err
	}

	start := time.Now().UTC().AddDate(0, 0, -(trendDays - 1)).Truncate(24 * time.Hour)
	var dates []time.Time
	err = s.db.Model(&models.ComplianceWarning{}).
		Where("detection_date >= ?", start).
		Pluck("detection_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("load detection trend: %w", err)
	}

	perDay := make(map[string]int)
	for _, d := range dates {
		perDay[d.UTC().Format("2006-01-02")]++
	}
	trend := make([]TrendPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, TrendPoint{Date: day, Count: perDay[day]})
	}

	return &Analytics{ByStatus: byStatus, ByCategory: byCategory, Trend: trend}, nil
}

func (s *WarningStore) countBy(column string) (map[string]int, error) {
	var rows []struct {
		Name  string
		Total int
	}
	err := s.db.Model(&models.ComplianceWarning{}).
		Select(column + " AS name, count(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count warnings by %s: %w", column, err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Total
	}
	return out, nil
}

// AnalyticsHandler handles GET /warnings/analytics.
func AnalyticsHandler(store *WarningStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.Analytics()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build analytics: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}
