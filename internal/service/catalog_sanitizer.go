package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
)

// catalogSanitizer strips markup from catalog text. Titles and list entries are plain text;
// descriptions keep basic formatting.
type catalogSanitizer struct {
	text *bluemonday.Policy
	rich *bluemonday.Policy
}

func newCatalogSanitizer() catalogSanitizer {
	rich := bluemonday.UGCPolicy()
	rich.AllowElements("p", "strong", "em", "ul", "ol", "li", "br")
	return catalogSanitizer{text: bluemonday.StrictPolicy(), rich: rich}
}

// plain strips all markup. StrictPolicy escapes entities, so the result is unescaped back to
// text; plain values are matched verbatim by filters and graded answers.
func (s catalogSanitizer) plain(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.text.Sanitize(value)))
}

func (s catalogSanitizer) formatted(value string) string {
	return strings.TrimSpace(s.rich.Sanitize(value))
}

// entry normalizes one list element the way list does.
func (s catalogSanitizer) entry(value string) string {
	return strings.ReplaceAll(s.plain(value), "|", "/")
}

// list drops blank entries and replaces the list delimiter.
func (s catalogSanitizer) list(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		value = s.entry(value)
		if value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return cleaned
}

func (s catalogSanitizer) applyCareer(career *models.CareerProfile, req dto.CareerUpsertRequest) {
	career.Title = s.plain(req.Title)
	career.Category = req.Category
	career.Description = s.formatted(req.Description)
	career.Salary = models.SalaryRange{
		Entry:    models.SalaryBand{Min: req.SalaryRange.Entry.Min, Max: req.SalaryRange.Entry.Max},
		Mid:      models.SalaryBand{Min: req.SalaryRange.Mid.Min, Max: req.SalaryRange.Mid.Max},
		Senior:   models.SalaryBand{Min: req.SalaryRange.Senior.Min, Max: req.SalaryRange.Senior.Max},
		Currency: strings.ToUpper(strings.TrimSpace(req.SalaryRange.Currency)),
	}
	career.DemandIndicator = req.DemandIndicator
	career.RiskIndex = req.RiskIndex
	career.TimeToEmploymentMonths = req.TimeToEmploymentMonths
	career.EducationDurationYears = req.EducationDurationYears
	career.QualificationRequired = s.list(req.QualificationRequired)
	career.Locations = s.list(req.Locations)
	career.RequiredSkills = s.list(req.RequiredSkills)

	career.EducationCost = models.CostRange{}
	if req.EducationCostRange != nil {
		career.EducationCost = models.CostRange{
			Min:      req.EducationCostRange.Min,
			Max:      req.EducationCostRange.Max,
			Currency: strings.ToUpper(strings.TrimSpace(req.EducationCostRange.Currency)),
		}
	}
	if req.IsActive != nil {
		career.IsActive = *req.IsActive
	}
}
