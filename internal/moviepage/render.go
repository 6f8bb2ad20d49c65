package moviepage

import (
	"fmt"

	"movie-page-service/internal/model"
)

// View is the rendered tree of the page. It depends only on the ViewState and
// the strings it was rendered with.
type View struct {
	Lang    string     `json:"lang"`
	Phase   Phase      `json:"phase"`
	Title   string     `json:"document_title"`
	Class   string     `json:"class"`
	Text    string     `json:"text,omitempty"`
	Heading string     `json:"heading,omitempty"`
	Message string     `json:"message,omitempty"`
	Movie   *MovieView `json:"movie,omitempty"`
}

// MovieView is the loaded layout: titles, poster and the labeled field list
type MovieView struct {
	TitleRU string     `json:"title_ru"`
	TitleEN string     `json:"title_en"`
	Poster  PosterView `json:"poster"`
	About   string     `json:"about"`
	Fields  []Field    `json:"fields"`
}

// PosterView is either an image with a one-shot fallback or a placeholder block
type PosterView struct {
	Src         string `json:"src,omitempty"`
	Fallback    string `json:"fallback,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// HasImage reports whether the poster renders as an image
func (p PosterView) HasImage() bool {
	return p.Src != ""
}

// Field is one row of the labeled field list
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
	Tags  []Tag  `json:"tags,omitempty"`
	Span  int    `json:"span"`
}

// Tag is a coloured genre tag
type Tag struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Render maps a state to its view tree
func Render(state ViewState, s Strings) View {
	switch state.Phase() {
	case PhaseError:
		return View{
			Lang:    s.Lang,
			Phase:   PhaseError,
			Title:   s.ErrorHeading,
			Class:   "movie-page error",
			Heading: s.ErrorHeading,
			Message: s.ErrorText(state.Reason()),
		}
	case PhaseNotFound:
		return View{
			Lang:    s.Lang,
			Phase:   PhaseNotFound,
			Title:   s.NotFoundHeading,
			Class:   "movie-page not-found",
			Heading: s.NotFoundHeading,
			Message: s.NotFoundHint,
		}
	case PhaseLoaded:
		mv := renderMovie(state.Movie(), s)
		return View{
			Lang:  s.Lang,
			Phase: PhaseLoaded,
			Title: documentTitle(mv, s),
			Movie: &mv,
		}
	default:
		return View{
			Lang:  s.Lang,
			Phase: PhaseLoading,
			Title: s.Loading,
			Class: "movie-page loading",
			Text:  s.Loading,
		}
	}
}

func renderMovie(m *model.Movie, s Strings) MovieView {
	d := m.Details

	tags := make([]Tag, 0, len(d.Genres))
	for _, genre := range d.Genres {
		tags = append(tags, Tag{Text: genre.String(), Color: GenreTagColor})
	}

	return MovieView{
		TitleRU: m.Title.RU.String(),
		TitleEN: m.Title.EN.String(),
		Poster:  renderPoster(m.Poster.String(), s),
		About:   s.AboutHeading,
		Fields: []Field{
			{Key: "year", Label: s.Year, Value: d.Year.String(), Span: 1},
			{Key: "director", Label: s.Director, Value: d.Director.String(), Span: 1},
			{Key: "screenwriter", Label: s.Screenwriter, Value: d.Screenwriter.String(), Span: 1},
			{Key: "genres", Label: s.Genre, Tags: tags, Span: 1},
			{Key: "country", Label: s.Country, Value: d.Country.String(), Span: 1},
			{Key: "description", Label: s.Description, Value: d.Description.String(), Span: 3},
		},
	}
}

func renderPoster(poster string, s Strings) PosterView {
	src, ok := ResolvePoster(poster)
	if !ok {
		return PosterView{Placeholder: s.ImageMissing}
	}
	return PosterView{Src: src, Fallback: PlaceholderImageURL}
}

func documentTitle(mv MovieView, s Strings) string {
	name := mv.TitleRU
	if name == "" {
		name = mv.TitleEN
	}
	if name == "" {
		return s.AboutHeading
	}
	return fmt.Sprintf(s.DocumentTitleFmt, name)
}
