package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPath(t *testing.T) {
	assert.Equal(t, "/Assets/shoes/air_max", BuildPath("/Assets", "shoes", "air_max"))
	assert.Equal(t, "/Assets/shoes", BuildPath("/Assets/", "shoes"))
	assert.Equal(t, "/Assets/shoes/air_max/Description",
		BuildPath(BuildPath("/Assets", "shoes", "air_max"), "Description"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "air_max", Normalize("Air Max"))
	assert.Equal(t, "air_max", Normalize("air max"))
	assert.Equal(t, "air_max", Normalize("  Air Max  "))
	assert.Equal(t, "running_shoes", Normalize("Running Shoes"))
}

func TestDisplayNameRoundTrip(t *testing.T) {
	assert.Equal(t, "Air Max", DisplayName("air_max"))
	assert.Equal(t, "Shoes", DisplayName("shoes"))

	for _, name := range []string{"Air Max", "Shoes", "Winter Jacket Xl"} {
		assert.Equal(t, name, DisplayName(Normalize(name)))
	}
}
