package model

import (
	"database/sql/driver"
	"time"

	"github.com/donde/storefront-backend/pkg/patch"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SettingsID is the primary key of the only store_settings row.
const SettingsID uint = 1

// LocaleList is a text[] column on Postgres and an encoded text column elsewhere.
type LocaleList []string

func (l LocaleList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *LocaleList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*l = LocaleList(arr)
	return nil
}

func (LocaleList) GormDataType() string {
	return "text"
}

func (LocaleList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// StoreSettings holds store-wide branding and contact data. Text columns are
// nullable; nil and "" both read as "not configured".
type StoreSettings struct {
	ID uint `gorm:"primarykey" json:"id"`

	SiteTitle   *string `gorm:"type:text" json:"site_title"` // legacy, pre-localization
	SiteTitleEn *string `gorm:"type:text" json:"site_title_en"`
	SiteTitleAz *string `gorm:"type:text" json:"site_title_az"`
	SiteTitleHe *string `gorm:"type:text" json:"site_title_he"`
	SiteTitleRu *string `gorm:"type:text" json:"site_title_ru"`

	HeaderTitleEn *string `gorm:"type:text" json:"header_title_en"`
	HeaderTitleAz *string `gorm:"type:text" json:"header_title_az"`
	HeaderTitleHe *string `gorm:"type:text" json:"header_title_he"`
	HeaderTitleRu *string `gorm:"type:text" json:"header_title_ru"`

	BannerTitleEn *string `gorm:"type:text" json:"banner_title_en"`
	BannerTitleAz *string `gorm:"type:text" json:"banner_title_az"`
	BannerTitleHe *string `gorm:"type:text" json:"banner_title_he"`
	BannerTitleRu *string `gorm:"type:text" json:"banner_title_ru"`

	BannerDescriptionEn *string `gorm:"type:text" json:"banner_description_en"`
	BannerDescriptionAz *string `gorm:"type:text" json:"banner_description_az"`
	BannerDescriptionHe *string `gorm:"type:text" json:"banner_description_he"`
	BannerDescriptionRu *string `gorm:"type:text" json:"banner_description_ru"`

	LangLabelEn *string `gorm:"type:text" json:"lang_label_en"`
	LangLabelAz *string `gorm:"type:text" json:"lang_label_az"`
	LangLabelHe *string `gorm:"type:text" json:"lang_label_he"`
	LangLabelRu *string `gorm:"type:text" json:"lang_label_ru"`

	PrimaryColor          *string `gorm:"type:text" json:"primary_color"`
	BannerBackgroundColor *string `gorm:"type:text" json:"banner_background_color"`
	BannerBackgroundImage *string `gorm:"type:text" json:"banner_background_image"`

	BannerTitleFontFamily    *string `gorm:"type:text" json:"banner_title_font_family"`
	BannerTitleFontSize      *string `gorm:"type:text" json:"banner_title_font_size"`
	BannerTitleColor         *string `gorm:"type:text" json:"banner_title_color"`
	BannerTitleAlign         *string `gorm:"type:text" json:"banner_title_align"`
	BannerTitleVerticalAlign *string `gorm:"type:text" json:"banner_title_vertical_align"`

	BannerDescriptionFontFamily    *string `gorm:"type:text" json:"banner_description_font_family"`
	BannerDescriptionFontSize      *string `gorm:"type:text" json:"banner_description_font_size"`
	BannerDescriptionColor         *string `gorm:"type:text" json:"banner_description_color"`
	BannerDescriptionAlign         *string `gorm:"type:text" json:"banner_description_align"`
	BannerDescriptionVerticalAlign *string `gorm:"type:text" json:"banner_description_vertical_align"`

	LogoURL        *string `gorm:"type:text" json:"logo_url"`
	FaviconURL     *string `gorm:"type:text" json:"favicon_url"`
	Tagline        *string `gorm:"type:text" json:"tagline"`
	Address        *string `gorm:"type:text" json:"address"`
	Phone          *string `gorm:"type:text" json:"phone"`
	Email          *string `gorm:"type:text" json:"email"`
	Whatsapp       *string `gorm:"type:text" json:"whatsapp"`
	BannerURL      *string `gorm:"type:text" json:"banner_url"` // legacy
	TopDescription *string `gorm:"type:text" json:"top_description"`

	// SetupConfig is the opaque bag written by the setup wizard.
	SetupConfig datatypes.JSON `json:"setup_config"`
	// SwitcherExcludedLocales overrides the configured switcher exclusions when non-nil.
	SwitcherExcludedLocales LocaleList `json:"switcher_excluded_locales"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StoreSettings) TableName() string {
	return "store_settings"
}

// SettingsPatch is a partial update of StoreSettings. Absent keys leave the
// column untouched; explicit nulls clear it.
type SettingsPatch struct {
	SiteTitle   patch.Field[string] `json:"site_title"`
	SiteTitleEn patch.Field[string] `json:"site_title_en"`
	SiteTitleAz patch.Field[string] `json:"site_title_az"`
	SiteTitleHe patch.Field[string] `json:"site_title_he"`
	SiteTitleRu patch.Field[string] `json:"site_title_ru"`

	HeaderTitleEn patch.Field[string] `json:"header_title_en"`
	HeaderTitleAz patch.Field[string] `json:"header_title_az"`
	HeaderTitleHe patch.Field[string] `json:"header_title_he"`
	HeaderTitleRu patch.Field[string] `json:"header_title_ru"`

	BannerTitleEn patch.Field[string] `json:"banner_title_en"`
	BannerTitleAz patch.Field[string] `json:"banner_title_az"`
	BannerTitleHe patch.Field[string] `json:"banner_title_he"`
	BannerTitleRu patch.Field[string] `json:"banner_title_ru"`

	BannerDescriptionEn patch.Field[string] `json:"banner_description_en"`
	BannerDescriptionAz patch.Field[string] `json:"banner_description_az"`
	BannerDescriptionHe patch.Field[string] `json:"banner_description_he"`
	BannerDescriptionRu patch.Field[string] `json:"banner_description_ru"`

	LangLabelEn patch.Field[string] `json:"lang_label_en"`
	LangLabelAz patch.Field[string] `json:"lang_label_az"`
	LangLabelHe patch.Field[string] `json:"lang_label_he"`
	LangLabelRu patch.Field[string] `json:"lang_label_ru"`

	PrimaryColor          patch.Field[string] `json:"primary_color"`
	BannerBackgroundColor patch.Field[string] `json:"banner_background_color"`
	BannerBackgroundImage patch.Field[string] `json:"banner_background_image"`

	BannerTitleFontFamily    patch.Field[string] `json:"banner_title_font_family"`
	BannerTitleFontSize      patch.Field[string] `json:"banner_title_font_size"`
	BannerTitleColor         patch.Field[string] `json:"banner_title_color"`
	BannerTitleAlign         patch.Field[string] `json:"banner_title_align"`
	BannerTitleVerticalAlign patch.Field[string] `json:"banner_title_vertical_align"`

	BannerDescriptionFontFamily    patch.Field[string] `json:"banner_description_font_family"`
	BannerDescriptionFontSize      patch.Field[string] `json:"banner_description_font_size"`
	BannerDescriptionColor         patch.Field[string] `json:"banner_description_color"`
	BannerDescriptionAlign         patch.Field[string] `json:"banner_description_align"`
	BannerDescriptionVerticalAlign patch.Field[string] `json:"banner_description_vertical_align"`

	LogoURL        patch.Field[string] `json:"logo_url"`
	FaviconURL     patch.Field[string] `json:"favicon_url"`
	Tagline        patch.Field[string] `json:"tagline"`
	Address        patch.Field[string] `json:"address"`
	Phone          patch.Field[string] `json:"phone"`
	Email          patch.Field[string] `json:"email"`
	Whatsapp       patch.Field[string] `json:"whatsapp"`
	BannerURL      patch.Field[string] `json:"banner_url"`
	TopDescription patch.Field[string] `json:"top_description"`

	SetupConfig             patch.Field[datatypes.JSON] `json:"setup_config"`
	SwitcherExcludedLocales patch.Field[LocaleList]     `json:"switcher_excluded_locales"`
}

// Changes returns the column -> value map of the fields present in the patch.
func (p *SettingsPatch) Changes() map[string]interface{} {
	m := make(map[string]interface{})

	patch.Put(m, "site_title", p.SiteTitle)
	patch.Put(m, "site_title_en", p.SiteTitleEn)
	patch.Put(m, "site_title_az", p.SiteTitleAz)
	patch.Put(m, "site_title_he", p.SiteTitleHe)
	patch.Put(m, "site_title_ru", p.SiteTitleRu)

	patch.Put(m, "header_title_en", p.HeaderTitleEn)
	patch.Put(m, "header_title_az", p.HeaderTitleAz)
	patch.Put(m, "header_title_he", p.HeaderTitleHe)
	patch.Put(m, "header_title_ru", p.HeaderTitleRu)

	patch.Put(m, "banner_title_en", p.BannerTitleEn)
	patch.Put(m, "banner_title_az", p.BannerTitleAz)
	patch.Put(m, "banner_title_he", p.BannerTitleHe)
	patch.Put(m, "banner_title_ru", p.BannerTitleRu)

	patch.Put(m, "banner_description_en", p.BannerDescriptionEn)
	patch.Put(m, "banner_description_az", p.BannerDescriptionAz)
	patch.Put(m, "banner_description_he", p.BannerDescriptionHe)
	patch.Put(m, "banner_description_ru", p.BannerDescriptionRu)

	patch.Put(m, "lang_label_en", p.LangLabelEn)
	patch.Put(m, "lang_label_az", p.LangLabelAz)
	patch.Put(m, "lang_label_he", p.LangLabelHe)
	patch.Put(m, "lang_label_ru", p.LangLabelRu)

	patch.Put(m, "primary_color", p.PrimaryColor)
	patch.Put(m, "banner_background_color", p.BannerBackgroundColor)
	patch.Put(m, "banner_background_image", p.BannerBackgroundImage)

	patch.Put(m, "banner_title_font_family", p.BannerTitleFontFamily)
	patch.Put(m, "banner_title_font_size", p.BannerTitleFontSize)
	patch.Put(m, "banner_title_color", p.BannerTitleColor)
	patch.Put(m, "banner_title_align", p.BannerTitleAlign)
	patch.Put(m, "banner_title_vertical_align", p.BannerTitleVerticalAlign)

	patch.Put(m, "banner_description_font_family", p.BannerDescriptionFontFamily)
	patch.Put(m, "banner_description_font_size", p.BannerDescriptionFontSize)
	patch.Put(m, "banner_description_color", p.BannerDescriptionColor)
	patch.Put(m, "banner_description_align", p.BannerDescriptionAlign)
	patch.Put(m, "banner_description_vertical_align", p.BannerDescriptionVerticalAlign)

	patch.Put(m, "logo_url", p.LogoURL)
	patch.Put(m, "favicon_url", p.FaviconURL)
	patch.Put(m, "tagline", p.Tagline)
	patch.Put(m, "address", p.Address)
	patch.Put(m, "phone", p.Phone)
	patch.Put(m, "email", p.Email)
	patch.Put(m, "whatsapp", p.Whatsapp)
	patch.Put(m, "banner_url", p.BannerURL)
	patch.Put(m, "top_description", p.TopDescription)

	patch.Put(m, "setup_config", p.SetupConfig)
	patch.Put(m, "switcher_excluded_locales", p.SwitcherExcludedLocales)

	return m
}

// IsEmpty reports whether the patch touches no column.
func (p *SettingsPatch) IsEmpty() bool {
	return len(p.Changes()) == 0
}
