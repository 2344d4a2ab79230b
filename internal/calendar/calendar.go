// Package calendar lays out daily contribution counts as a week-aligned grid.
package calendar

import (
	"time"

	"github.com/drpaneas/gitinsight/internal/model"
)

const (
	// Weeks is the number of columns in the grid.
	Weeks      = 53
	daysInWeek = 7
	// spanDays separates the first and last cell.
	spanDays = Weeks*daysInWeek - 1

	dateLayout = "2006-01-02"
	maxLevel   = 4
)

// Build returns a 53x7 grid ending on the Saturday on or after today (UTC)
// and starting on a Sunday. Days missing from the input are zero.
func Build(days []model.ContributionDay, today time.Time) model.Calendar {
	byDate := make(map[string]model.ContributionDay, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	start := startOfGrid(today)
	cal := model.Calendar{
		Weeks:       make([][]model.ContributionDay, Weeks),
		MonthLabels: []model.MonthLabel{},
		Available:   true,
	}
	lastLabel := ""
	day := start
	for w := 0; w < Weeks; w++ {
		if day.Day() <= daysInWeek {
			if label := day.Format("Jan"); label != lastLabel {
				cal.MonthLabels = append(cal.MonthLabels, model.MonthLabel{Label: label, Week: w})
				lastLabel = label
			}
		}
		week := make([]model.ContributionDay, daysInWeek)
		for i := range week {
			key := day.Format(dateLayout)
			cell := model.ContributionDay{Date: key}
			if d, ok := byDate[key]; ok {
				cell.Count = max(d.Count, 0)
				cell.Level = max(0, min(d.Level, maxLevel))
			}
			cal.Total += cell.Count
			week[i] = cell
			day = day.AddDate(0, 0, 1)
		}
		cal.Weeks[w] = week
	}
	return cal
}

// Empty returns an all-zero grid flagged as unavailable, used when the
// contribution feed could not be read.
func Empty(today time.Time) model.Calendar {
	cal := Build(nil, today)
	cal.Available = false
	return cal
}

func startOfGrid(today time.Time) time.Time {
	t := today.UTC()
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := d.AddDate(0, 0, (int(time.Saturday)-int(d.Weekday())+daysInWeek)%daysInWeek)
	start := end.AddDate(0, 0, -spanDays)
	return start.AddDate(0, 0, -int(start.Weekday()))
}
