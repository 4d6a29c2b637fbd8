package models

import "time"

// SiteContent is one editable block of the public marketing site,
// keyed by a content slug (hero, about, pricing, contact...).
type SiteContent struct {
	ID        int       `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateSiteContentRequest struct {
	Value string `json:"value"`
}
