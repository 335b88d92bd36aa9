package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/claude/fitstreak/internal/history"
)

// generateSeriesChart plots top weight and volume per session.
func generateSeriesChart(exercise string, points []history.SeriesPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons"}),
		charts.WithTitleOpts(opts.Title{
			Title:    exercise,
			Subtitle: "Top set weight and session volume",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)

	labels := make([]string, len(points))
	top := make([]opts.LineData, len(points))
	volume := make([]opts.LineData, len(points))
	for i, p := range points {
		labels[i] = p.Date
		top[i] = opts.LineData{Value: p.TopWeight}
		volume[i] = opts.LineData{Value: p.Volume}
	}

	line.SetXAxis(labels).
		AddSeries("Top weight", top).
		AddSeries("Volume", volume).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	exercise := chi.URLParam(r, "exercise")
	from, to, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	points, err := s.svc.ExerciseSeries(r.Context(), userInfoFromContext(r).Login, exercise, from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := generateSeriesChart(exercise, points).Render(w); err != nil {
		s.log.Error("rendering chart", "exercise", exercise, "error", err)
	}
}
