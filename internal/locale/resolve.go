package locale

import (
	"github.com/donde/storefront-backend/internal/app/model"
)

// Role is a localized text slot of the store settings.
type Role uint8

const (
	SiteTitle Role = iota
	HeaderTitle
	BannerTitle
	BannerDescription
	LangLabel

	roleCount
)

var roleNames = [roleCount]string{
	SiteTitle:         "site_title",
	HeaderTitle:       "header_title",
	BannerTitle:       "banner_title",
	BannerDescription: "banner_description",
	LangLabel:         "lang_label",
}

func (r Role) String() string {
	if r >= roleCount {
		return ""
	}
	return roleNames[r]
}

type column struct {
	name string
	get  func(*model.StoreSettings) *string
}

// columns is indexed [role][locale].
var columns = [roleCount][localeCount]column{
	SiteTitle: {
		EN: {"site_title_en", func(s *model.StoreSettings) *string { return s.SiteTitleEn }},
		AZ: {"site_title_az", func(s *model.StoreSettings) *string { return s.SiteTitleAz }},
		HE: {"site_title_he", func(s *model.StoreSettings) *string { return s.SiteTitleHe }},
		RU: {"site_title_ru", func(s *model.StoreSettings) *string { return s.SiteTitleRu }},
	},
	HeaderTitle: {
		EN: {"header_title_en", func(s *model.StoreSettings) *string { return s.HeaderTitleEn }},
		AZ: {"header_title_az", func(s *model.StoreSettings) *string { return s.HeaderTitleAz }},
		HE: {"header_title_he", func(s *model.StoreSettings) *string { return s.HeaderTitleHe }},
		RU: {"header_title_ru", func(s *model.StoreSettings) *string { return s.HeaderTitleRu }},
	},
	BannerTitle: {
		EN: {"banner_title_en", func(s *model.StoreSettings) *string { return s.BannerTitleEn }},
		AZ: {"banner_title_az", func(s *model.StoreSettings) *string { return s.BannerTitleAz }},
		HE: {"banner_title_he", func(s *model.StoreSettings) *string { return s.BannerTitleHe }},
		RU: {"banner_title_ru", func(s *model.StoreSettings) *string { return s.BannerTitleRu }},
	},
	BannerDescription: {
		EN: {"banner_description_en", func(s *model.StoreSettings) *string { return s.BannerDescriptionEn }},
		AZ: {"banner_description_az", func(s *model.StoreSettings) *string { return s.BannerDescriptionAz }},
		HE: {"banner_description_he", func(s *model.StoreSettings) *string { return s.BannerDescriptionHe }},
		RU: {"banner_description_ru", func(s *model.StoreSettings) *string { return s.BannerDescriptionRu }},
	},
	LangLabel: {
		EN: {"lang_label_en", func(s *model.StoreSettings) *string { return s.LangLabelEn }},
		AZ: {"lang_label_az", func(s *model.StoreSettings) *string { return s.LangLabelAz }},
		HE: {"lang_label_he", func(s *model.StoreSettings) *string { return s.LangLabelHe }},
		RU: {"lang_label_ru", func(s *model.StoreSettings) *string { return s.LangLabelRu }},
	},
}

// Column returns the settings column holding role for l.
func Column(r Role, l Locale) string {
	if r >= roleCount || l >= localeCount {
		return ""
	}
	return columns[r][l].name
}

// lookup reads the role column for l, treating NULL and "" alike.
func lookup(s *model.StoreSettings, r Role, l Locale) string {
	if s == nil || r >= roleCount || l >= localeCount {
		return ""
	}
	if p := columns[r][l].get(s); p != nil {
		return *p
	}
	return ""
}

// Resolve returns the text to show for role in l. It never fails: missing
// settings degrade to "" (or the built-in name for LangLabel).
//
//	site_title         site_title_{l} -> site_title -> ""
//	header_title       header_title_{l} -> resolved site_title -> ""
//	banner_title       banner_title_{l} -> ""
//	banner_description banner_description_{l} -> ""
//	lang_label         lang_label_{l} -> built-in name
func Resolve(s *model.StoreSettings, r Role, l Locale) string {
	if l >= localeCount {
		l = Default
	}
	if v := lookup(s, r, l); v != "" {
		return v
	}

	switch r {
	case SiteTitle:
		if s != nil && s.SiteTitle != nil {
			return *s.SiteTitle
		}
	case HeaderTitle:
		return Resolve(s, SiteTitle, l)
	case LangLabel:
		return l.DisplayName()
	}
	return ""
}

// CategoryName returns name_{l}, then name_en, then the canonical name.
func CategoryName(c *model.Category, l Locale) string {
	if c == nil {
		return ""
	}
	var localized *string
	switch l {
	case AZ:
		localized = c.NameAz
	case HE:
		localized = c.NameHe
	case RU:
		localized = c.NameRu
	default:
		localized = c.NameEn
	}
	if localized != nil && *localized != "" {
		return *localized
	}
	if c.NameEn != nil && *c.NameEn != "" {
		return *c.NameEn
	}
	return c.Name
}
