// internal/workers/assessment/get-questions/repository.go
package getquestions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"financial-clinic-workers/internal/models"
)

// Repository loads the administrator-maintained question variations and
// demographic rules. Company-specific rows are returned alongside the
// global ones.
type Repository interface {
	ActiveVariations(ctx context.Context, language models.Language, companyID string) ([]models.QuestionVariation, error)
	ActiveRules(ctx context.Context, companyID string) ([]models.DemographicRule, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Company rows sort ahead of global rows so they win variation selection.
const activeVariationsQuery = `
SELECT id, base_question_id, name, language, text, options, rule, company_id, scoring_adjustment
FROM question_variations
WHERE active = true AND language = $1 AND (company_id IS NULL OR company_id = $2)
ORDER BY base_question_id ASC, (company_id IS NULL) ASC, id ASC`

const activeRulesQuery = `
SELECT id, name, conditions, actions, priority, company_id
FROM demographic_rules
WHERE active = true AND (company_id IS NULL OR company_id = $1)
ORDER BY priority ASC, id ASC`

func (r *PostgresRepository) ActiveVariations(ctx context.Context, language models.Language, companyID string) ([]models.QuestionVariation, error) {
	rows, err := r.db.QueryContext(ctx, activeVariationsQuery, string(language), companyID)
	if err != nil {
		return nil, fmt.Errorf("query question variations: %w", err)
	}
	defer rows.Close()

	var out []models.QuestionVariation
	for rows.Next() {
		var (
			v       models.QuestionVariation
			lang    string
			options []byte
			rule    []byte
			company sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.BaseQuestionID, &v.Name, &lang, &v.Text, &options, &rule, &company, &v.ScoringAdjustment); err != nil {
			return nil, fmt.Errorf("scan question variation: %w", err)
		}
		v.Language = models.Language(lang)
		v.CompanyID = company.String
		v.Active = true
		if len(options) > 0 {
			if err := json.Unmarshal(options, &v.Options); err != nil {
				return nil, fmt.Errorf("question variation %d: decode options: %w", v.ID, err)
			}
		}
		if len(rule) > 0 && string(rule) != "null" {
			v.Rule = json.RawMessage(rule)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ActiveRules(ctx context.Context, companyID string) ([]models.DemographicRule, error) {
	rows, err := r.db.QueryContext(ctx, activeRulesQuery, companyID)
	if err != nil {
		return nil, fmt.Errorf("query demographic rules: %w", err)
	}
	defer rows.Close()

	var out []models.DemographicRule
	for rows.Next() {
		var (
			dr      models.DemographicRule
			conds   []byte
			actions []byte
			company sql.NullString
		)
		if err := rows.Scan(&dr.ID, &dr.Name, &conds, &actions, &dr.Priority, &company); err != nil {
			return nil, fmt.Errorf("scan demographic rule: %w", err)
		}
		dr.Conditions = json.RawMessage(conds)
		dr.CompanyID = company.String
		dr.Active = true
		if len(actions) > 0 {
			if err := json.Unmarshal(actions, &dr.Actions); err != nil {
				return nil, fmt.Errorf("demographic rule %d: decode actions: %w", dr.ID, err)
			}
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}
