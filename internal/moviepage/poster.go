package moviepage

import "strings"

const (
	// PlaceholderImageURL replaces a poster that fails to load
	PlaceholderImageURL = "https://via.placeholder.com/300x450?text=No+Image"
	// GenreTagColor is the accent colour of every genre tag
	GenreTagColor = "#FF7A85"
)

// ResolvePoster derives a displayable image URL from a stored poster value.
// Values already carrying an http(s) scheme are kept; schemeless values get
// an http:// prefix. ok is false when there is no poster at all.
func ResolvePoster(poster string) (src string, ok bool) {
	if poster == "" {
		return "", false
	}
	if strings.HasPrefix(poster, "http") {
		return poster, true
	}
	return "http://" + poster, true
}
