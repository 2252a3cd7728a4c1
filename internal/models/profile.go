package models

import (
	"strings"
	"time"
)

// Profile is the demographic record submitted alongside an answer set.
type Profile struct {
	Name             string                 `json:"name,omitempty"`
	Email            string                 `json:"email,omitempty"`
	DateOfBirth      string                 `json:"date_of_birth,omitempty"`
	Age              *int                   `json:"age,omitempty"`
	Gender           string                 `json:"gender,omitempty"`
	Nationality      string                 `json:"nationality,omitempty"`
	Emirate          string                 `json:"emirate,omitempty"`
	Children         int                    `json:"children"`
	EmploymentStatus string                 `json:"employment_status,omitempty"`
	IncomeRange      string                 `json:"income_range,omitempty"`
	MonthlyIncome    *float64               `json:"monthly_income,omitempty"`
	CompanyID        string                 `json:"company_id,omitempty"`
	Attributes       map[string]interface{} `json:"attributes,omitempty"`
}

var dobLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

// AgeAt returns the explicit age or derives it from DateOfBirth.
func (p Profile) AgeAt(now time.Time) (int, bool) {
	if p.Age != nil {
		return *p.Age, true
	}
	dob := strings.TrimSpace(p.DateOfBirth)
	if dob == "" {
		return 0, false
	}
	for _, layout := range dobLayouts {
		t, err := time.Parse(layout, dob)
		if err != nil {
			continue
		}
		age := now.Year() - t.Year()
		if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
			age--
		}
		return age, true
	}
	return 0, false
}

// Context flattens the profile into the field map consumed by demographic
// rules. Empty values are omitted so that rules treat them as missing.
func (p Profile) Context() map[string]interface{} {
	ctx := make(map[string]interface{}, len(p.Attributes)+10)
	for k, v := range p.Attributes {
		if v != nil {
			ctx[k] = v
		}
	}

	setString := func(key, val string) {
		if val != "" {
			ctx[key] = val
		}
	}
	setString("gender", p.Gender)
	setString("nationality", p.Nationality)
	setString("emirate", p.Emirate)
	setString("employment_status", p.EmploymentStatus)
	setString("income_range", p.IncomeRange)
	setString("company_id", p.CompanyID)

	ctx["children"] = p.Children
	if age, ok := p.AgeAt(time.Now()); ok {
		ctx["age"] = age
	}
	if p.MonthlyIncome != nil {
		ctx["monthly_income"] = *p.MonthlyIncome
	}
	return ctx
}
