// cmd/tools/assessment-cli/commands.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/insights"
	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/assessment/validator"
	"financial-clinic-workers/internal/models"
)

var errInvalid = errors.New("invalid input")

// submission is the offline answer file format.
type submission struct {
	Variant            models.Variant     `json:"variant"`
	Language           models.Language    `json:"language"`
	Answers            models.AnswerSet   `json:"answers"`
	Profile            models.Profile     `json:"profile"`
	ScoringAdjustments map[string]float64 `json:"scoringAdjustments,omitempty"`
}

type scoreReport struct {
	models.ScoreResult
	Insights      []models.Insight     `json:"insights"`
	RiskTolerance models.RiskTolerance `json:"risk_tolerance,omitempty"`
}

type cli struct {
	catalogFile string
	variant     string
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "assessment-cli",
		Short: "Offline tools for the financial clinic assessment",
		Long: `assessment-cli scores answer files, lists catalog questions and lints
demographic rules without a running Zeebe broker.

Examples:
  assessment-cli score answers.json
  assessment-cli questions --variant legacy --lang ar --children 2
  assessment-cli questions --by-category
  assessment-cli lint rule.json
  assessment-cli catalog check my_catalog.yaml`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.catalogFile, "catalog", "", "Load the catalog from a YAML file instead of the built-in variant")
	root.PersistentFlags().StringVar(&c.variant, "variant", string(models.VariantFinancialClinic), "Catalog variant")

	root.AddCommand(c.newScoreCommand())
	root.AddCommand(c.newQuestionsCommand())
	root.AddCommand(c.newLintCommand())
	root.AddCommand(newCatalogCommand())
	return root
}

func (c *cli) catalog(variant models.Variant) (*catalog.Catalog, error) {
	if c.catalogFile != "" {
		return catalog.LoadFile(c.catalogFile)
	}
	if variant == "" {
		variant = models.Variant(c.variant)
	}
	return catalog.Load(variant)
}

func (c *cli) newScoreCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "score <answers.json|->",
		Short: "Validate and score an answer file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sub submission
			if err := readJSON(cmd.InOrStdin(), args[0], &sub); err != nil {
				return err
			}
			cat, err := c.catalog(sub.Variant)
			if err != nil {
				return err
			}

			if res := validator.New(cat).Validate(sub.Answers, sub.Profile.Children); !res.Valid {
				for _, e := range res.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), "  -", e)
				}
				return fmt.Errorf("%w: %d answer problems", errInvalid, len(res.Errors))
			}

			answers := scoring.NormalizeAnswers(sub.Answers, sub.ScoringAdjustments)
			result := scoring.New(cat).Score(answers, sub.Profile.Children)

			gen, err := insights.New()
			if err != nil {
				return err
			}
			lang := sub.Language
			if lang == "" {
				lang = models.LanguageEnglish
			}
			report := scoreReport{
				ScoreResult: result,
				Insights:    gen.Generate(result.CategoryScores, rules.Context(sub.Profile.Context()), limit, lang),
			}
			if cat.Variant() == models.VariantLegacy {
				report.RiskTolerance = scoring.RiskTolerance(answers)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().IntVar(&limit, "max-insights", insights.DefaultMaxInsights, "Maximum number of insights")
	return cmd
}

func (c *cli) newQuestionsCommand() *cobra.Command {
	var (
		lang     string
		children int
		asJSON   bool
		grouped  bool
	)
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the questions a respondent would see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog("")
			if err != nil {
				return err
			}
			qs := cat.Localized(children, models.Language(lang))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), qs)
			}
			out := cmd.OutOrStdout()
			if grouped {
				printByCategory(out, cat, children, models.Language(lang))
				return nil
			}
			for _, q := range qs {
				fmt.Fprintf(out, "%2d. [%s] %s (%s, weight %d)\n", q.Number, q.ID, q.Text, q.Category, q.Weight)
			}
			fmt.Fprintf(out, "%d questions, total weight %d\n", len(qs), cat.TotalWeight(children))
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(models.LanguageEnglish), "Language (en or ar)")
	cmd.Flags().IntVar(&children, "children", 0, "Number of children in the profile")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.Flags().BoolVar(&grouped, "by-category", false, "Group the table by category with per-category weights")
	return cmd
}

// printByCategory lists questions under their category in catalog order.
func printByCategory(out io.Writer, cat *catalog.Catalog, children int, lang models.Language) {
	byCategory := cat.QuestionsByCategory(children)
	for _, category := range cat.Categories() {
		qs := byCategory[category]
		if len(qs) == 0 {
			continue
		}
		weight := 0
		for _, q := range qs {
			weight += q.Weight
		}
		fmt.Fprintf(out, "%s (%d questions, weight %d)\n", category, len(qs), weight)
		for _, q := range qs {
			lq := q.Localized(lang)
			fmt.Fprintf(out, "  %2d. [%s] %s\n", lq.Number, lq.ID, lq.Text)
		}
	}
	fmt.Fprintf(out, "total weight %d\n", cat.TotalWeight(children))
}

func (c *cli) newLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <rule.json|->",
		Short: "Lint a demographic rule document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc map[string]interface{}
			if err := readJSON(cmd.InOrStdin(), args[0], &doc); err != nil {
				return err
			}
			cat, err := c.catalog("")
			if err != nil {
				return err
			}
			report := rules.Lint(doc, cat)
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("%w: rule has %d errors", errInvalid, len(report.Errors))
			}
			return nil
		},
	}
}

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Question catalog utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <catalog.yaml>",
		Short: "Validate a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				var catErr *catalog.Error
				if errors.As(err, &catErr) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n  - %s\n", catErr.Source, strings.Join(catErr.Problems, "\n  - "))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s ok: %d questions, %d categories\n",
				cat.Variant(), len(cat.Questions()), len(cat.Categories()))
			return nil
		},
	})
	return cmd
}

func readJSON(stdin io.Reader, path string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
