package services

import (
	"testing"

	"github.com/nhammoud/homepros_backend/models"
)

func categories(names ...string) []models.ServiceCategory {
	out := make([]models.ServiceCategory, len(names))
	for i, name := range names {
		out[i] = models.ServiceCategory{Name: name, IsActive: true}
	}
	return out
}

func TestMatchServiceCategory(t *testing.T) {
	tests := []struct {
		name       string
		requested  string
		categories []models.ServiceCategory
		want       string
	}{
		{
			name:       "exact match ignoring case",
			requested:  "kitchen remodeling",
			categories: categories("Bathroom Remodeling", "Kitchen Remodeling"),
			want:       "Kitchen Remodeling",
		},
		{
			name:       "exact match wins over substring",
			requested:  "Flooring",
			categories: categories("Epoxy Flooring", "Flooring"),
			want:       "Flooring",
		},
		{
			name:       "request contained in category name",
			requested:  "kitchen",
			categories: categories("Kitchen Remodeling"),
			want:       "Kitchen Remodeling",
		},
		{
			name:       "category stem contained in request",
			requested:  "need flooring repair",
			categories: categories("Flooring & Hardwood"),
			want:       "Flooring & Hardwood",
		},
		{
			name:       "ampersand stem stripped before reverse match",
			requested:  "heating repair asap",
			categories: categories("Heating & Cooling"),
			want:       "Heating & Cooling",
		},
		{
			name:       "keyword fallback",
			requested:  "fix my hvac system",
			categories: categories("Heating & Cooling"),
			want:       "Heating & Cooling",
		},
		{
			name:       "keyword fallback maps synonyms",
			requested:  "backyard landscaping quote",
			categories: categories("Lawn Care"),
			want:       "Lawn Care",
		},
		{
			name:       "no match returns nil",
			requested:  "pest control",
			categories: categories("Plumbing", "Electrical"),
			want:       "",
		},
		{
			name:       "empty request returns nil",
			requested:  "   ",
			categories: categories("Plumbing"),
			want:       "",
		},
		{
			name:      "empty rate sheet returns nil",
			requested: "plumbing",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchServiceCategory(tt.requested, tt.categories)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected no match, got %q", got.Name)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected match %q, got nil", tt.want)
			}
			if got.Name != tt.want {
				t.Errorf("expected match %q, got %q", tt.want, got.Name)
			}
		})
	}
}

func TestMatchServiceCategoryFirstSubstringWins(t *testing.T) {
	// Two categories both contain the request; the first in rate sheet order
	// is the one returned.
	cats := categories("Epoxy Flooring", "Hardwood Flooring")
	got := MatchServiceCategory("flooring", cats)
	if got == nil || got.Name != "Epoxy Flooring" {
		t.Fatalf("expected first substring match, got %+v", got)
	}
}
