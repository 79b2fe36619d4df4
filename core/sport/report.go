package sport

import (
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

type (
	// ReportEntry is the score of one exercise, shaped for charts and PDF export.
	ReportEntry struct {
		Key          ExerciseKey `json:"key"`
		ExerciseName string      `json:"exerciseName"`
		ShortName    string      `json:"shortName"`
		Score        int         `json:"score"`
	}

	// Report lists one entry per catalog exercise, in catalog order.
	Report []ReportEntry

	PeriodReport struct {
		Period  period.Period `json:"period"`
		Entries Report        `json:"entries"`
		Total   int           `json:"total"`
	}

	StudentReport struct {
		Student student.Student `json:"student"`
		Entries Report          `json:"entries"`
		Total   int             `json:"total"`
	}
)

// Total sums the scores of the report.
func (r Report) Total() int {
	var total int
	for _, e := range r {
		total += e.Score
	}
	return total
}

// BuildReport scores the results of a student for a period.
// results are rows in fetch order; rows of other students or periods are ignored.
// When several rows match the period, the last one wins. Without any matching row,
// every exercise scores NoScore.
func BuildReport(studentID, periodID int, results []SportResult) Report {
	var (
		latest SportResult
		found  bool
	)
	for _, r := range results {
		if r.StudentID == studentID && r.PeriodID == periodID {
			latest = r
			found = true
		}
	}

	report := make(Report, 0, len(Catalog))
	for _, ex := range Catalog {
		score := NoScore
		if found {
			score = Score(ex.Key, latest.Value(ex.Key))
		}
		report = append(report, ReportEntry{
			Key:          ex.Key,
			ExerciseName: ex.Name,
			ShortName:    ex.ShortName,
			Score:        score,
		})
	}
	return report
}

// BuildProgress builds one report per period the student has results for, in chronological order.
func BuildProgress(studentID int, results []SportResult, periods []period.Period) []PeriodReport {
	withResults := make(map[int]bool, len(periods))
	for _, r := range results {
		if r.StudentID == studentID {
			withResults[r.PeriodID] = true
		}
	}

	sorted := make([]period.Period, len(periods))
	copy(sorted, periods)
	period.SortChronologically(sorted)

	progress := make([]PeriodReport, 0, len(withResults))
	for _, p := range sorted {
		if !withResults[p.ID] {
			continue
		}
		report := BuildReport(studentID, p.ID, results)
		progress = append(progress, PeriodReport{Period: p, Entries: report, Total: report.Total()})
	}
	return progress
}

// BuildGroupReport builds the report of every student for a period, in the students order.
// results may hold rows of any student; each student only gets their own rows.
func BuildGroupReport(periodID int, students []student.Student, results []SportResult) []StudentReport {
	byStudent := make(map[int][]SportResult, len(students))
	for _, r := range results {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	reports := make([]StudentReport, 0, len(students))
	for _, st := range students {
		report := BuildReport(st.ID, periodID, byStudent[st.ID])
		reports = append(reports, StudentReport{Student: st, Entries: report, Total: report.Total()})
	}
	return reports
}
