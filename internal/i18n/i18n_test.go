package i18n_test

import (
	"testing"

	"github.com/jyoon-lee/haruhealth/internal/i18n"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		lang i18n.Language
		key  string
		want string
	}{
		{
			name: "korean catalog",
			lang: i18n.Korean,
			key:  "recommendation.rest_day",
			want: "오늘은 휴식일이에요.",
		},
		{
			name: "english catalog",
			lang: i18n.English,
			key:  "survey.day.unrecognized",
			want: "The submission contains an unknown weekday.",
		},
		{
			name: "unsupported language falls back to korean",
			lang: i18n.Language("fi"),
			key:  "calendar.complete",
			want: "완료",
		},
		{
			name: "unknown key falls back to itself",
			lang: i18n.Korean,
			key:  "no.such.key",
			want: "no.such.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := i18n.Translate(tt.lang, tt.key); got != tt.want {
				t.Errorf("Translate(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	for _, lang := range i18n.SupportedLanguages() {
		if !i18n.IsSupported(lang) {
			t.Errorf("IsSupported(%q) = false for a supported language", lang)
		}
	}
	if i18n.IsSupported(i18n.Language("fi")) {
		t.Error(`IsSupported("fi") = true`)
	}
}
