// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package models

// SiteSettings holds site configuration as a key/value map.
type SiteSettings map[string]string

// Setting keys used across the application.
const (
	SettingSiteTitle       = "site_title"
	SettingSiteDescription = "site_description"
	SettingPostsPerPage    = "posts_per_page"
)

// DefaultSiteSettings returns the fallback values used when a key has
// never been written.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SettingSiteTitle:       "Inkwell",
		SettingSiteDescription: "A personal blog",
		SettingPostsPerPage:    "10",
	}
}

// Merge overlays s on top of the defaults, returning a complete map.
func (s SiteSettings) Merge(defaults SiteSettings) SiteSettings {
	out := make(SiteSettings, len(defaults)+len(s))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range s {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
