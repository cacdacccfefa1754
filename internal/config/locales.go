package config

const (
	LangEN = "en"
	LangES = "es"
)

func IsSupportedLanguage(lang string) bool {
	return lang == LangEN || lang == LangES
}

// GetLocaleConfig returns lang when supported and English otherwise.
func GetLocaleConfig(lang string) string {
	if IsSupportedLanguage(lang) {
		return lang
	}
	return LangEN
}
