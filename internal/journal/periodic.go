package journal

import (
	"maps"
	"slices"

	"journal/internal/model"
	"journal/internal/validate"
)

// MonthlyLogInput is the content of a monthly log. On update, nil fields are
// left unchanged.
type MonthlyLogInput struct {
	Goals      []string `json:"goals"`
	Tasks      []string `json:"tasks"`
	Highlights []string `json:"highlights"`
}

// YearlyLogInput is the content of a yearly log. On update, nil fields are
// left unchanged.
type YearlyLogInput struct {
	Goals      []string `json:"goals"`
	Overview   []string `json:"overview"`
	Highlights []string `json:"highlights"`
}

func checkMonth(month string) error {
	if !validate.IsValidMonth(month) {
		return invalidf("month %q must be YYYY-MM", month)
	}
	return nil
}

func checkYear(year string) error {
	if !validate.IsValidYear(year) {
		return invalidf("year %q must be YYYY", year)
	}
	return nil
}

func replaceIfSet(dst *[]string, src []string) {
	if src != nil {
		*dst = slices.Clone(src)
	}
}

// AddMonthlyLog creates the log for month, replacing any existing one.
func (j *Journal) AddMonthlyLog(month string, in MonthlyLogInput) (model.MonthlyLog, error) {
	if err := checkMonth(month); err != nil {
		return model.MonthlyLog{}, err
	}
	l := &model.MonthlyLog{
		Month:      month,
		Goals:      copyStrings(in.Goals),
		Tasks:      copyStrings(in.Tasks),
		Highlights: copyStrings(in.Highlights),
		CreatedAt:  j.now(),
	}
	j.state.MonthlyLogs[month] = l
	j.save(SaveEvent{Operation: "add", ItemType: "monthly", Key: month})
	return l.Clone(), nil
}

// GetMonthlyLog returns the log for month.
func (j *Journal) GetMonthlyLog(month string) (model.MonthlyLog, error) {
	l, err := j.monthlyLog(month)
	if err != nil {
		return model.MonthlyLog{}, err
	}
	return l.Clone(), nil
}

func (j *Journal) monthlyLog(month string) (*model.MonthlyLog, error) {
	if err := checkMonth(month); err != nil {
		return nil, err
	}
	l, ok := j.state.MonthlyLogs[month]
	if !ok {
		return nil, notFoundf("no monthly log for %s", month)
	}
	return l, nil
}

// UpdateMonthlyLog replaces the non-nil fields of in on an existing log.
func (j *Journal) UpdateMonthlyLog(month string, in MonthlyLogInput) (model.MonthlyLog, error) {
	l, err := j.monthlyLog(month)
	if err != nil {
		return model.MonthlyLog{}, err
	}
	replaceIfSet(&l.Goals, in.Goals)
	replaceIfSet(&l.Tasks, in.Tasks)
	replaceIfSet(&l.Highlights, in.Highlights)
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "update", ItemType: "monthly", Key: month})
	return l.Clone(), nil
}

// DeleteMonthlyLog removes the log for month and reports whether it existed.
func (j *Journal) DeleteMonthlyLog(month string) bool {
	if _, ok := j.state.MonthlyLogs[month]; !ok {
		return false
	}
	delete(j.state.MonthlyLogs, month)
	j.save(SaveEvent{Operation: "delete", ItemType: "monthly", Key: month})
	return true
}

// ListMonthlyLogs returns every monthly log ordered by month.
func (j *Journal) ListMonthlyLogs() []model.MonthlyLog {
	out := []model.MonthlyLog{}
	for _, month := range slices.Sorted(maps.Keys(j.state.MonthlyLogs)) {
		out = append(out, j.state.MonthlyLogs[month].Clone())
	}
	return out
}

// AddYearlyLog creates the log for year, replacing any existing one.
func (j *Journal) AddYearlyLog(year string, in YearlyLogInput) (model.YearlyLog, error) {
	if err := checkYear(year); err != nil {
		return model.YearlyLog{}, err
	}
	l := &model.YearlyLog{
		Year:       year,
		Goals:      copyStrings(in.Goals),
		Overview:   copyStrings(in.Overview),
		Highlights: copyStrings(in.Highlights),
		CreatedAt:  j.now(),
	}
	j.state.YearlyLogs[year] = l
	j.save(SaveEvent{Operation: "add", ItemType: "yearly", Key: year})
	return l.Clone(), nil
}

// GetYearlyLog returns the log for year.
func (j *Journal) GetYearlyLog(year string) (model.YearlyLog, error) {
	l, err := j.yearlyLog(year)
	if err != nil {
		return model.YearlyLog{}, err
	}
	return l.Clone(), nil
}

func (j *Journal) yearlyLog(year string) (*model.YearlyLog, error) {
	if err := checkYear(year); err != nil {
		return nil, err
	}
	l, ok := j.state.YearlyLogs[year]
	if !ok {
		return nil, notFoundf("no yearly log for %s", year)
	}
	return l, nil
}

// UpdateYearlyLog replaces the non-nil fields of in on an existing log.
func (j *Journal) UpdateYearlyLog(year string, in YearlyLogInput) (model.YearlyLog, error) {
	l, err := j.yearlyLog(year)
	if err != nil {
		return model.YearlyLog{}, err
	}
	replaceIfSet(&l.Goals, in.Goals)
	replaceIfSet(&l.Overview, in.Overview)
	replaceIfSet(&l.Highlights, in.Highlights)
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "update", ItemType: "yearly", Key: year})
	return l.Clone(), nil
}

// DeleteYearlyLog removes the log for year and reports whether it existed.
func (j *Journal) DeleteYearlyLog(year string) bool {
	if _, ok := j.state.YearlyLogs[year]; !ok {
		return false
	}
	delete(j.state.YearlyLogs, year)
	j.save(SaveEvent{Operation: "delete", ItemType: "yearly", Key: year})
	return true
}

// ListYearlyLogs returns every yearly log ordered by year.
func (j *Journal) ListYearlyLogs() []model.YearlyLog {
	out := []model.YearlyLog{}
	for _, year := range slices.Sorted(maps.Keys(j.state.YearlyLogs)) {
		out = append(out, j.state.YearlyLogs[year].Clone())
	}
	return out
}
