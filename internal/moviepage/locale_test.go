package moviepage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocale_Negotiate(t *testing.T) {
	locale := NewLocale("ru")

	tests := []struct {
		name     string
		override string
		accept   string
		want     string
	}{
		{name: "default", want: "ru"},
		{name: "accept english", accept: "en-US,en;q=0.9", want: "en"},
		{name: "accept weighted", accept: "de;q=0.9,ru;q=0.8,en;q=0.5", want: "ru"},
		{name: "unsupported accept", accept: "de-DE", want: "ru"},
		{name: "override wins", override: "en", accept: "ru", want: "en"},
		{name: "bad override", override: "!!", accept: "en", want: "en"},
		{name: "garbage accept", accept: ";;;", want: "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locale.Negotiate(tt.override, tt.accept).Lang)
		})
	}
}

func TestNewLocale_Fallback(t *testing.T) {
	assert.Equal(t, "en", NewLocale("en").Default().Lang)
	assert.Equal(t, "ru", NewLocale("ru-RU").Default().Lang)
	assert.Equal(t, "ru", NewLocale("").Default().Lang)
	assert.Equal(t, "ru", NewLocale("xx-invalid-").Default().Lang)
}

func TestStrings_ErrorText(t *testing.T) {
	assert.Equal(t, "movie identifier missing", english.ErrorText(ErrorMissingIdentifier))
	assert.Empty(t, english.ErrorText(ErrorNone))
}
