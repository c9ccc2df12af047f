package services

import (
	"fmt"
	"strings"

	"github.com/rpupo63/student-showcase-backend/config"
)

// GetBaseURL returns the public frontend URL from BASE_URL, without a
// trailing slash.
func GetBaseURL(cfg map[string]string) string {
	return strings.TrimSuffix(config.GetString(cfg, "BASE_URL", ""), "/")
}

// BuildCandidateURL links to a candidate in the admin area, e.g.
// https://example.com/admin/candidates/12. Empty when baseURL is unset.
func BuildCandidateURL(baseURL string, id uint) string {
	if baseURL == "" || id == 0 {
		return ""
	}
	return fmt.Sprintf("%s/admin/candidates/%d", strings.TrimSuffix(baseURL, "/"), id)
}

// BuildGalleryURL links to a project in the public gallery.
func BuildGalleryURL(baseURL string, id uint) string {
	if baseURL == "" || id == 0 {
		return ""
	}
	return fmt.Sprintf("%s/gallery/%d", strings.TrimSuffix(baseURL, "/"), id)
}
