// internal/assessment/products/filter.go
package products

import "financial-clinic-workers/internal/models"

// Eligible applies a product's demographic filters to a respondent. Unset
// filters match everyone and an empty gender passes the gender filter.
func Eligible(p models.Product, nationality, gender string, children int) bool {
	if f := value(p.NationalityFilter); f != "" && f != nationality {
		return false
	}
	if f := value(p.GenderFilter); f != "" && gender != "" && f != gender {
		return false
	}
	switch value(p.ChildrenFilter) {
	case "":
		return true
	case models.ChildrenFilterNone:
		return children == 0
	case models.ChildrenFilterAtLeastOne:
		return children >= 1
	default:
		return false
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
