package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maintain_ai/backend/internal/models"
)

func TestMapDomainKnownDomains(t *testing.T) {
	cases := map[string]models.Category{
		"Plumbing":                         models.CategoryWaterDrainage,
		"Electrical":                       models.CategoryElectricityLighting,
		"Infrastructure & Road Safety":     models.CategoryRoadsTransport,
		"Traffic Management":               models.CategoryRoadsTransport,
		"Waste Management":                 models.CategorySanitationWaste,
		"General Maintenance":              models.CategoryMiscellaneous,
		"Public Utilities & Safety":        models.CategoryElectricityLighting,
		"Waste Management & Public Health": models.CategorySanitationWaste,
		"Fire Hazard":                      models.CategoryPublicSafety,
		"Bridge Structural Damage":         models.CategoryBuildingsInfrastructure,
		"Noise Pollution":                  models.CategoryEnvironmentPollution,
		"":                                 models.CategoryMiscellaneous,
		"something nobody anticipated 😀":   models.CategoryMiscellaneous,
	}
	for domain, want := range cases {
		assert.Equal(t, want, MapDomain(domain), "domain %q", domain)
	}
}

func TestMapDomainIsIdempotentOnCategories(t *testing.T) {
	for _, c := range models.Categories {
		assert.Equal(t, c, MapDomain(string(c)))
		assert.Equal(t, c, MapDomain(" "+string(c)+" "))
	}
}

func TestMapDomainTotalAndDeterministic(t *testing.T) {
	inputs := []string{"Plumbing", "pothole", "???", "PARK benches", "Street LIGHT", "x"}
	for _, in := range inputs {
		first := MapDomain(in)
		assert.True(t, first.Valid(), "%q mapped outside the closed set", in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, MapDomain(in))
		}
	}
}
