package employee

import (
	"math"
	"sort"

	"github.com/staffdeck/directory-api/internal/employee/entity"
)

// BuildStats reduces the full unfiltered employee set into the summary
// report. Equal-count locations and titles keep first-seen order (stable
// secondary order by encounter). An empty set yields a zeroed report with no
// top location rather than a divide-by-zero.
func BuildStats(all []entity.Employee) *entity.StatsReport {
	report := &entity.StatsReport{
		TotalEmployees: len(all),
		Locations:      []entity.NameCount{},
		JobTitleTrends: []entity.TitleCount{},
	}
	report.ActiveEmployees.Total = len(all)
	if len(all) == 0 {
		return report
	}

	departments := map[string]struct{}{}
	locationCounts := map[string]int{}
	titleCounts := map[string]int{}
	var locationOrder, titleOrder []string
	var salarySum float64

	for _, e := range all {
		departments[e.Department] = struct{}{}
		salarySum += e.Salary
		if e.IsActive {
			report.ActiveEmployees.Active++
		}
		if _, seen := locationCounts[e.Location]; !seen {
			locationOrder = append(locationOrder, e.Location)
		}
		locationCounts[e.Location]++
		if _, seen := titleCounts[e.Title]; !seen {
			titleOrder = append(titleOrder, e.Title)
		}
		titleCounts[e.Title]++
	}

	report.Departments = len(departments)
	report.AverageSalary = int(math.Round(salarySum / float64(len(all))))

	sort.SliceStable(locationOrder, func(i, j int) bool {
		return locationCounts[locationOrder[i]] > locationCounts[locationOrder[j]]
	})
	for _, name := range locationOrder {
		report.Locations = append(report.Locations, entity.NameCount{Name: name, Value: locationCounts[name]})
	}

	top := report.Locations[0]
	report.TopLocation = &entity.TopLocation{
		Name:    top.Name,
		Count:   top.Value,
		Percent: int(math.Round(float64(top.Value) / float64(len(all)) * 100)),
	}

	sort.SliceStable(titleOrder, func(i, j int) bool {
		return titleCounts[titleOrder[i]] > titleCounts[titleOrder[j]]
	})
	for _, title := range titleOrder {
		report.JobTitleTrends = append(report.JobTitleTrends, entity.TitleCount{Title: title, Value: titleCounts[title]})
	}

	return report
}
