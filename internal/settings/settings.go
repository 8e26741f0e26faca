// Package settings stores the singleton site settings document.
package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type General struct {
	SiteName        string `json:"siteName"`
	SiteURL         string `json:"siteUrl"`
	AdminEmail      string `json:"adminEmail"`
	MaintenanceMode bool   `json:"maintenanceMode"`
}

type Appearance struct {
	Theme        Theme  `json:"theme"`
	PrimaryColor string `json:"primaryColor"`
	Logo         string `json:"logo,omitempty"`
}

type API struct {
	APIKey         string   `json:"apiKey"`
	Enabled        bool     `json:"enabled"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

// Settings is stored as a single row keyed by identity.SettingsUUID.
type Settings struct {
	bun.BaseModel `bun:"table:settings,alias:st"`

	ID         uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	General    General    `bun:"general,type:jsonb" json:"general"`
	Appearance Appearance `bun:"appearance,type:jsonb" json:"appearance"`
	API        API        `bun:"api,type:jsonb" json:"api"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

// Defaults is the document returned before anything was saved.
func Defaults(id uuid.UUID) *Settings {
	return &Settings{
		ID: id,
		General: General{
			SiteName: "Dynamic CMS",
			SiteURL:  "http://localhost:8080",
		},
		Appearance: Appearance{
			Theme:        ThemeSystem,
			PrimaryColor: "#3b82f6",
		},
		API: API{
			Enabled:        true,
			AllowedOrigins: []string{},
		},
	}
}

func cloneSettings(src *Settings) *Settings {
	if src == nil {
		return nil
	}
	copied := *src
	copied.API.AllowedOrigins = append([]string{}, src.API.AllowedOrigins...)
	return &copied
}
