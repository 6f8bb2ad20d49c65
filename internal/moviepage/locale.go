package moviepage

import (
	"golang.org/x/text/language"
)

// Strings is the user-visible text of the page in one language
type Strings struct {
	Lang             string
	Loading          string
	ErrorHeading     string
	NotFoundHeading  string
	NotFoundHint     string
	AboutHeading     string
	ImageMissing     string
	Year             string
	Director         string
	Screenwriter     string
	Genre            string
	Country          string
	Description      string
	MissingID        string
	LoadFailed       string
	DocumentTitleFmt string
}

var russian = Strings{
	Lang:             "ru",
	Loading:          "Загрузка фильма...",
	ErrorHeading:     "Ошибка",
	NotFoundHeading:  "Фильм не найден",
	NotFoundHint:     "Попробуйте выбрать другой фильм",
	AboutHeading:     "О фильме",
	ImageMissing:     "Изображение отсутствует",
	Year:             "год",
	Director:         "режиссер",
	Screenwriter:     "сценарист",
	Genre:            "жанр",
	Country:          "страна",
	Description:      "описание",
	MissingID:        "ID фильма не указан",
	LoadFailed:       "Не удалось загрузить информацию о фильме",
	DocumentTitleFmt: "%s — фильм",
}

var english = Strings{
	Lang:             "en",
	Loading:          "Loading movie...",
	ErrorHeading:     "Error",
	NotFoundHeading:  "Movie not found",
	NotFoundHint:     "Try choosing another movie",
	AboutHeading:     "About the movie",
	ImageMissing:     "No image available",
	Year:             "year",
	Director:         "director",
	Screenwriter:     "screenwriter",
	Genre:            "genre",
	Country:          "country",
	Description:      "description",
	MissingID:        MessageMissingIdentifier,
	LoadFailed:       MessageLoadFailed,
	DocumentTitleFmt: "%s — movie",
}

var (
	supported = []language.Tag{language.Russian, language.English}
	matcher   = language.NewMatcher(supported)
	catalog   = map[language.Tag]Strings{
		language.Russian: russian,
		language.English: english,
	}
)

// ErrorText returns the localized message for an error kind
func (s Strings) ErrorText(kind ErrorKind) string {
	switch kind {
	case ErrorMissingIdentifier:
		return s.MissingID
	case ErrorLoadFailed:
		return s.LoadFailed
	default:
		return ""
	}
}

// Locale picks page strings
type Locale struct {
	fallback language.Tag
}

// NewLocale creates a Locale falling back to the given language code.
// Unknown codes fall back to Russian.
func NewLocale(defaultLang string) *Locale {
	fallback := language.Russian
	if tag, err := language.Parse(defaultLang); err == nil {
		_, idx, _ := matcher.Match(tag)
		fallback = supported[idx]
	}
	return &Locale{fallback: fallback}
}

// Default returns the fallback strings
func (l *Locale) Default() Strings {
	return catalog[l.fallback]
}

// Negotiate picks strings from an explicit lang override first, then the
// Accept-Language header, then the fallback.
func (l *Locale) Negotiate(override, acceptLanguage string) Strings {
	if override != "" {
		if tag, err := language.Parse(override); err == nil {
			if s, ok := l.match(tag); ok {
				return s
			}
		}
	}

	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			if s, ok := l.match(tags...); ok {
				return s
			}
		}
	}

	return l.Default()
}

func (l *Locale) match(tags ...language.Tag) (Strings, bool) {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Strings{}, false
	}
	return catalog[supported[idx]], true
}
