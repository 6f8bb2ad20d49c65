// Package moviepage implements the movie detail page: the loader that turns
// one fetch into a ViewState, the page session that drives it per navigation,
// and the pure renderer that maps a ViewState to a view tree and HTML.
package moviepage

import (
	"encoding/json"
	"fmt"

	"movie-page-service/internal/model"
)

// Phase names the active variant of a ViewState
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseNotFound
	PhaseLoaded
)

var phaseNames = map[Phase]string{
	PhaseLoading:  "loading",
	PhaseError:    "error",
	PhaseNotFound: "not_found",
	PhaseLoaded:   "loaded",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown view phase %q", text)
}

// ViewState is exactly one of Loading, Error(message), NotFound or Loaded(movie).
// The zero value is Loading.
type ViewState struct {
	phase  Phase
	reason ErrorKind
	movie  *model.Movie
}

// Loading is the state of a navigation whose fetch has not resolved yet
func Loading() ViewState {
	return ViewState{phase: PhaseLoading}
}

// Failed is the terminal error state for the given error kind
func Failed(kind ErrorKind) ViewState {
	return ViewState{phase: PhaseError, reason: kind}
}

// NotFound is the state of a resolved fetch without a usable record
func NotFound() ViewState {
	return ViewState{phase: PhaseNotFound}
}

// Loaded holds a fetched movie. A nil movie yields NotFound.
func Loaded(m *model.Movie) ViewState {
	if m == nil {
		return NotFound()
	}
	return ViewState{phase: PhaseLoaded, movie: m}
}

// Phase returns the active variant
func (s ViewState) Phase() Phase {
	return s.phase
}

// Movie returns the loaded movie, or nil outside of PhaseLoaded
func (s ViewState) Movie() *model.Movie {
	return s.movie
}

// Reason returns the error kind, or ErrorNone outside of PhaseError
func (s ViewState) Reason() ErrorKind {
	return s.reason
}

// Message returns the user-visible error message, empty outside of PhaseError
func (s ViewState) Message() string {
	if s.phase != PhaseError {
		return ""
	}
	return s.reason.Message()
}

// Settled reports whether the fetch for this state has resolved
func (s ViewState) Settled() bool {
	return s.phase != PhaseLoading
}

type viewStateJSON struct {
	Phase   Phase        `json:"phase"`
	Kind    string       `json:"kind,omitempty"`
	Message string       `json:"message,omitempty"`
	Movie   *model.Movie `json:"movie,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (s ViewState) MarshalJSON() ([]byte, error) {
	out := viewStateJSON{Phase: s.phase, Message: s.Message(), Movie: s.movie}
	if s.phase == PhaseError {
		out.Kind = s.reason.String()
	}
	return json.Marshal(out)
}
