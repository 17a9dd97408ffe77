// services/matcher.go
package services

import (
	"strings"

	"github.com/nhammoud/homepros_backend/models"
)

// serviceKeywords maps canonical keywords found in free-text service requests
// to candidate category-name substrings. Kept as an ordered slice because the
// first keyword that yields a match wins; map iteration would make the result
// depend on randomized ordering.
var serviceKeywords = []struct {
	keyword    string
	candidates []string
}{
	{"flooring", []string{"flooring", "floor"}},
	{"floor", []string{"flooring", "floor"}},
	{"electric", []string{"electrical", "electric"}},
	{"plumb", []string{"plumbing"}},
	{"kitchen", []string{"kitchen"}},
	{"bathroom", []string{"bathroom", "bath"}},
	{"bath", []string{"bathroom", "bath"}},
	{"roof", []string{"roofing", "roof"}},
	{"hvac", []string{"hvac", "heating", "cooling"}},
	{"heating", []string{"heating", "hvac"}},
	{"cooling", []string{"cooling", "hvac", "air"}},
	{"air condition", []string{"cooling", "hvac", "air"}},
	{"paint", []string{"painting", "paint"}},
	{"landscap", []string{"landscaping", "landscape", "lawn"}},
	{"lawn", []string{"landscaping", "lawn"}},
	{"pool", []string{"pool"}},
	{"solar", []string{"solar"}},
	{"window", []string{"window"}},
	{"door", []string{"door"}},
	{"siding", []string{"siding"}},
	{"fence", []string{"fencing", "fence"}},
	{"fencing", []string{"fencing", "fence"}},
	{"concrete", []string{"concrete", "masonry"}},
	{"drywall", []string{"drywall"}},
	{"gutter", []string{"gutter"}},
	{"deck", []string{"deck"}},
	{"insulation", []string{"insulation"}},
	{"remodel", []string{"remodel", "renovation"}},
	{"renovat", []string{"renovation", "remodel"}},
	{"garage", []string{"garage"}},
}

// MatchServiceCategory resolves free-text requested-service input to one rate
// sheet row. Three strategies are tried in order, first hit wins:
//
//  1. case-insensitive exact name equality
//  2. case-insensitive substring in either direction; for the reverse
//     direction the category name is truncated at its first "&" so that
//     "Heating & Cooling" still matches a request like "heating repair"
//  3. the keyword table above
//
// Returns nil when nothing matches; the caller must not create a commission
// record in that case.
func MatchServiceCategory(requested string, categories []models.ServiceCategory) *models.ServiceCategory {
	req := strings.ToLower(strings.TrimSpace(requested))
	if req == "" || len(categories) == 0 {
		return nil
	}

	for i := range categories {
		if strings.ToLower(categories[i].Name) == req {
			return &categories[i]
		}
	}

	for i := range categories {
		name := strings.ToLower(categories[i].Name)
		if strings.Contains(name, req) {
			return &categories[i]
		}
		stem := name
		if amp := strings.Index(stem, "&"); amp >= 0 {
			stem = strings.TrimSpace(stem[:amp])
		}
		if stem != "" && strings.Contains(req, stem) {
			return &categories[i]
		}
	}

	for _, entry := range serviceKeywords {
		if !strings.Contains(req, entry.keyword) {
			continue
		}
		for _, candidate := range entry.candidates {
			for i := range categories {
				if strings.Contains(strings.ToLower(categories[i].Name), candidate) {
					return &categories[i]
				}
			}
		}
	}

	return nil
}
