package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-backend/internal/models"
)

func ref(id string) models.AssetRef {
	return models.AssetRef{URL: "https://cdn.example.com/" + id + ".jpg", FileID: id}
}

func TestDiffAssetRefs(t *testing.T) {
	prev := []models.AssetRef{ref("A"), ref("B"), ref("C")}
	next := []models.AssetRef{ref("B"), ref("C"), ref("D")}

	toUpload, toDelete := diffAssetRefs(prev, next)

	assert.Equal(t, []models.AssetRef{ref("D")}, toUpload)
	assert.Equal(t, []models.AssetRef{ref("A")}, toDelete)
}

func TestDiffAssetRefsNoChange(t *testing.T) {
	refs := []models.AssetRef{ref("A"), ref("B")}

	toUpload, toDelete := diffAssetRefs(refs, refs)

	assert.Empty(t, toUpload)
	assert.Empty(t, toDelete)
}

func TestDiffAssetRefsNewUploadsWithoutIDs(t *testing.T) {
	// Freshly selected images have no file id yet; both must upload.
	prev := []models.AssetRef{ref("A")}
	next := []models.AssetRef{
		ref("A"),
		{URL: "https://example.com/new1.jpg"},
		{URL: "https://example.com/new2.jpg"},
	}

	toUpload, toDelete := diffAssetRefs(prev, next)

	assert.Len(t, toUpload, 2)
	assert.Empty(t, toDelete)
}

func TestSameAssetRefs(t *testing.T) {
	assert.True(t, sameAssetRefs(nil, nil))
	assert.True(t, sameAssetRefs([]models.AssetRef{ref("A")}, []models.AssetRef{ref("A")}))
	assert.False(t, sameAssetRefs([]models.AssetRef{ref("A")}, []models.AssetRef{ref("B")}))
	assert.False(t, sameAssetRefs([]models.AssetRef{ref("A")}, nil))
}
