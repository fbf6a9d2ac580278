package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Subfolder names of one product folder. Every product lives under
// base/category/name with exactly these four children.
const (
	descriptionFolder   = "Description"
	itemFolder          = "Item"
	modelFolder         = "Model"
	factoryImagesFolder = "Factory_Images"
)

var productSubfolders = []string{descriptionFolder, itemFolder, modelFolder, factoryImagesFolder}

var titleCaser = cases.Title(language.English)

// BuildPath joins path segments with "/". Asset-store paths always use
// forward slashes regardless of host OS. Segments are joined as given;
// normalization is the caller's job via Normalize, and nothing else in
// this codebase normalizes names anywhere but there.
func BuildPath(base string, segments ...string) string {
	parts := append([]string{strings.TrimSuffix(base, "/")}, segments...)
	return strings.Join(parts, "/")
}

// Normalize turns a display name into a path segment: lower-case with
// spaces replaced by underscores. This is the single normalization point.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// DisplayName reverses Normalize for presentation: underscores back to
// spaces, title-cased.
func DisplayName(segment string) string {
	return titleCaser.String(strings.ReplaceAll(segment, "_", " "))
}

// productPath returns the product's root folder for already-normalized
// category and name segments.
func productPath(base, category, name string) string {
	return BuildPath(base, category, name)
}
