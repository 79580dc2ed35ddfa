package category

import (
	"strings"

	"github.com/maintain_ai/backend/internal/models"
)

type rule struct {
	category models.Category
	keywords []string
}

// Rules are evaluated in order; the first rule with a keyword contained in
// the lower-cased domain wins.
var rules = []rule{
	{models.CategoryWaterDrainage, []string{"water", "drain", "plumb", "pipe", "sewage", "sewer", "flood"}},
	{models.CategorySanitationWaste, []string{"waste", "garbage", "trash", "sanitation", "litter", "public health", "hygiene"}},
	{models.CategoryElectricityLighting, []string{"electric", "light", "power", "utilit", "outlet"}},
	{models.CategoryRoadsTransport, []string{"road", "pothole", "pavement", "street", "highway", "transport", "traffic", "parking"}},
	{models.CategoryPublicSafety, []string{"safety", "hazard", "emergency", "fire", "security", "crime"}},
	{models.CategoryBuildingsInfrastructure, []string{"building", "infrastructure", "bridge", "structur", "facilit", "construction"}},
	{models.CategoryEnvironmentPollution, []string{"environment", "pollut", "tree", "park", "noise", "air quality", "green"}},
}

// MapDomain resolves a free-text classifier domain to one of the fixed
// categories. It is total: anything unrecognised is Miscellaneous.
func MapDomain(domain string) models.Category {
	trimmed := strings.TrimSpace(domain)
	for _, c := range models.Categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c
		}
	}

	text := strings.ToLower(trimmed)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category
			}
		}
	}
	return models.CategoryMiscellaneous
}
