package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "US", NormalizeCountry("US"))
	assert.Equal(t, "US", NormalizeCountry("us"))
	assert.Equal(t, "US", NormalizeCountry("United States"))
	assert.Equal(t, "US", NormalizeCountry("  united states  "))
	assert.Equal(t, "DE", NormalizeCountry("germany"))
	assert.Equal(t, "", NormalizeCountry(""))
	assert.Equal(t, "", NormalizeCountry("Atlantis"))
}

func TestNormalizeRegion(t *testing.T) {
	assert.Equal(t, "CA", NormalizeRegion("US", "CA"))
	assert.Equal(t, "CA", NormalizeRegion("us", "california"))
	assert.Equal(t, "QC", NormalizeRegion("CA", "Quebec"))
	assert.Equal(t, "NSW", NormalizeRegion("AU", "new south wales"))

	// Countries without region-scoped reporting match nothing.
	assert.Equal(t, "", NormalizeRegion("DE", "Bavaria"))
	assert.Equal(t, "", NormalizeRegion("US", ""))
	assert.Equal(t, "", NormalizeRegion("US", "Narnia"))
}

func TestCountryName(t *testing.T) {
	assert.Equal(t, "United States", CountryName("us"))
	assert.Equal(t, "", CountryName("XX"))
}
