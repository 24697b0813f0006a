// Package i18n holds the user-facing message catalog.
package i18n

// Language represents a supported language.
type Language string

const (
	// Korean is the Korean language.
	Korean Language = "ko"
	// English is the English language.
	English Language = "en"
)

// DefaultLanguage is the fallback language.
const DefaultLanguage = Korean

// translations maps language codes to translation keys and their values.
var translations = map[Language]map[string]string{
	Korean: {
		"recommendation.none":     "아직 추천이 없어요. 설문을 완료하면 맞춤 추천을 받을 수 있어요.",
		"recommendation.rest_day": "오늘은 휴식일이에요.",
		"calendar.complete":       "완료",
		"calendar.partial":        "진행 중",
		"survey.day.unrecognized": "알 수 없는 요일이 포함되어 있어요.",
	},
	English: {
		"recommendation.none":     "No recommendation yet. Complete the survey to get a personalized plan.",
		"recommendation.rest_day": "Today is a rest day.",
		"calendar.complete":       "Done",
		"calendar.partial":        "In progress",
		"survey.day.unrecognized": "The submission contains an unknown weekday.",
	},
}

// SupportedLanguages returns all supported languages.
func SupportedLanguages() []Language {
	return []Language{Korean, English}
}

// IsSupported checks if a language is supported.
func IsSupported(lang Language) bool {
	_, ok := translations[lang]
	return ok
}

// Translate returns the translation for the given key in the specified
// language, falling back to the default language and finally to the key
// itself.
func Translate(lang Language, key string) string {
	if langTranslations, ok := translations[lang]; ok {
		if translation, ok := langTranslations[key]; ok {
			return translation
		}
	}

	if lang != DefaultLanguage {
		if langTranslations, ok := translations[DefaultLanguage]; ok {
			if translation, ok := langTranslations[key]; ok {
				return translation
			}
		}
	}

	return key
}
