package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestProfile_AgeAt(t *testing.T) {
	explicit := 41

	tests := []struct {
		name    string
		profile Profile
		now     time.Time
		want    int
		wantOK  bool
	}{
		{"explicit age wins", Profile{Age: &explicit, DateOfBirth: "2000-01-01"}, date(2025, 6, 1), 41, true},
		{"no date of birth", Profile{}, date(2025, 6, 1), 0, false},
		{"unparseable date", Profile{DateOfBirth: "yesterday"}, date(2025, 6, 1), 0, false},
		{"birthday today", Profile{DateOfBirth: "1990-06-01"}, date(2025, 6, 1), 35, true},
		{"day before birthday", Profile{DateOfBirth: "1990-06-02"}, date(2025, 6, 1), 34, true},
		{"birthday in leap birth year", Profile{DateOfBirth: "2000-03-01"}, date(2025, 3, 1), 25, true},
		{"day before birthday in leap current year", Profile{DateOfBirth: "2001-12-31"}, date(2024, 12, 30), 22, true},
		{"birthday in leap current year", Profile{DateOfBirth: "2001-12-31"}, date(2024, 12, 31), 23, true},
		{"leap day birth before march", Profile{DateOfBirth: "2000-02-29"}, date(2025, 2, 28), 24, true},
		{"leap day birth on march first", Profile{DateOfBirth: "2000-02-29"}, date(2025, 3, 1), 25, true},
		{"day first layout", Profile{DateOfBirth: "15/08/1985"}, date(2025, 8, 14), 39, true},
		{"slash layout", Profile{DateOfBirth: "1985/08/15"}, date(2025, 8, 15), 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.profile.AgeAt(tt.now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfile_Context(t *testing.T) {
	age := 30
	income := 25000.0
	p := Profile{
		Age:           &age,
		Gender:        "Female",
		Nationality:   "Emirati",
		Children:      2,
		MonthlyIncome: &income,
		Attributes:    map[string]interface{}{"industry": "banking", "ignored": nil},
	}

	ctx := p.Context()
	assert.Equal(t, 30, ctx["age"])
	assert.Equal(t, "Female", ctx["gender"])
	assert.Equal(t, "Emirati", ctx["nationality"])
	assert.Equal(t, 2, ctx["children"])
	assert.Equal(t, 25000.0, ctx["monthly_income"])
	assert.Equal(t, "banking", ctx["industry"])

	for _, missing := range []string{"emirate", "company_id", "ignored"} {
		_, ok := ctx[missing]
		assert.False(t, ok, missing)
	}

	bare := Profile{}.Context()
	require.Contains(t, bare, "children")
	assert.Equal(t, 0, bare["children"])
	assert.NotContains(t, bare, "age")
}
