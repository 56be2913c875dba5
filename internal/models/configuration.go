package models

import "strings"

// AppLanguage is the UI language preference.
type AppLanguage string

// Supported languages.
const (
	AppLanguageSystem AppLanguage = "system"
	AppLanguageZhHans AppLanguage = "zhHans"
	AppLanguageEn     AppLanguage = "en"
)

// Resolved maps system to a concrete language using the host locale tag.
func (l AppLanguage) Resolved(localeTag string) AppLanguage {
	if l == AppLanguageZhHans || l == AppLanguageEn {
		return l
	}
	if strings.HasPrefix(strings.ToLower(localeTag), "zh") {
		return AppLanguageZhHans
	}
	return AppLanguageEn
}

// AppSettings holds user preferences and the holiday calendar.
type AppSettings struct {
	CurrencyCode          string         `json:"currency_code"`
	AccentHex             string         `json:"accent_hex"`
	SkipHolidaysByDefault bool           `json:"skip_holidays_by_default"`
	AppLanguage           AppLanguage    `json:"app_language"`
	ExportEnabled         bool           `json:"export_enabled"`
	ImportEnabled         bool           `json:"import_enabled"`
	HolidayRanges         []HolidayRange `json:"holiday_ranges"`
}

// DefaultSettings returns the settings used for a fresh document.
func DefaultSettings() AppSettings {
	return AppSettings{
		CurrencyCode:          "CNY",
		AccentHex:             "#2A7BFF",
		SkipHolidaysByDefault: true,
		AppLanguage:           AppLanguageZhHans,
	}
}
