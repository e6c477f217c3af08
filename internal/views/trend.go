package views

import "time"

// TrendPoint is one observation of a trend series. Growth is the change from
// the previous point and is absent on the first point and wherever either
// value is missing.
type TrendPoint struct {
	RecordID        string     `json:"record_id" yaml:"record_id"`
	ObservationDate *time.Time `json:"observation_date,omitempty" yaml:"observation_date,omitempty"`
	ValueNumeric    *float64   `json:"value_numeric,omitempty" yaml:"value_numeric,omitempty"`
	Growth          *float64   `json:"growth,omitempty" yaml:"growth,omitempty"`
}

// Trend is the growth series of one indicator.
type Trend struct {
	IndicatorCode string       `json:"indicator_code" yaml:"indicator_code"`
	Points        []TrendPoint `json:"points" yaml:"points"`
	MeanGrowth    *float64     `json:"mean_growth,omitempty" yaml:"mean_growth,omitempty"`
	LastGrowth    *float64     `json:"last_growth,omitempty" yaml:"last_growth,omitempty"`
}

// TrendSeries computes the period-over-period first difference of the
// indicator's values in date order. MeanGrowth averages every defined
// difference and LastGrowth is the difference at the latest point; with
// fewer than two points both are absent. An empty code names no indicator
// and yields an empty trend.
func TrendSeries(src Source, indicatorCode string) Trend {
	trend := Trend{IndicatorCode: indicatorCode, Points: []TrendPoint{}}
	if indicatorCode == "" {
		return trend
	}
	var sum float64
	var n int
	for i, r := range ObservationsByIndicator(src, indicatorCode) {
		obs, _ := r.Observation()
		p := TrendPoint{RecordID: r.ID, ObservationDate: obs.ObservationDate, ValueNumeric: obs.ValueNumeric}
		if i > 0 {
			prev := trend.Points[i-1].ValueNumeric
			if prev != nil && p.ValueNumeric != nil {
				g := *p.ValueNumeric - *prev
				p.Growth = &g
				sum += g
				n++
			}
		}
		trend.Points = append(trend.Points, p)
	}
	if n > 0 {
		mean := sum / float64(n)
		trend.MeanGrowth = &mean
		trend.LastGrowth = trend.Points[len(trend.Points)-1].Growth
	}
	return trend
}
