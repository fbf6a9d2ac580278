package catalog

import "catalog-backend/internal/models"

// diffAssetRefs computes the factory-image reconciliation delta by file
// id: refs present only in next must be uploaded, refs present only in
// prev must be deleted, the intersection is left untouched. Order among
// survivors is not preserved or enforced.
func diffAssetRefs(prev, next []models.AssetRef) (toUpload, toDelete []models.AssetRef) {
	prevByID := make(map[string]models.AssetRef, len(prev))
	for _, ref := range prev {
		prevByID[ref.FileID] = ref
	}
	nextByID := make(map[string]models.AssetRef, len(next))
	for _, ref := range next {
		nextByID[ref.FileID] = ref
	}

	for _, ref := range next {
		if _, ok := prevByID[ref.FileID]; !ok {
			toUpload = append(toUpload, ref)
		}
	}
	for _, ref := range prev {
		if _, ok := nextByID[ref.FileID]; !ok {
			toDelete = append(toDelete, ref)
		}
	}
	return toUpload, toDelete
}

func sameAssetRefs(a, b []models.AssetRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
