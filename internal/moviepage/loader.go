package moviepage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-page-service/internal/model"

	"github.com/rs/zerolog/log"
)

// Fetcher is the single collaborator of the loader: fetchMovie(id)
type Fetcher interface {
	FetchMovie(ctx context.Context, id string) (*model.MovieResponse, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, id string) (*model.MovieResponse, error)

// FetchMovie implements Fetcher
func (f FetcherFunc) FetchMovie(ctx context.Context, id string) (*model.MovieResponse, error) {
	return f(ctx, id)
}

// Loader turns one fetch into a settled ViewState
type Loader struct {
	fetcher Fetcher
}

// NewLoader creates a new Loader
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Load issues exactly one request for id and returns the resulting state.
// An empty id returns the missing-identifier error without a request.
func (l *Loader) Load(ctx context.Context, id string) ViewState {
	// whitespace-only ids would only ever 404 upstream, so they count as missing
	id = strings.TrimSpace(id)
	if id == "" {
		return Failed(ErrorMissingIdentifier)
	}

	resp, err := l.fetch(ctx, id)
	if err != nil {
		// 仅用于诊断，不展示给用户
		if errors.Is(err, context.Canceled) {
			log.Debug().Err(err).Str("id", id).Msg("Movie fetch cancelled")
		} else {
			log.Error().Err(err).Str("id", id).Msg("Failed to load movie")
		}
		return Failed(ErrorLoadFailed)
	}

	if !resp.IsSuccess() {
		status := ""
		if resp != nil {
			status = resp.Status
		}
		log.Debug().Str("id", id).Str("status", status).Msg("Movie not found")
		return NotFound()
	}

	return Loaded(resp.Data)
}

// fetch calls the fetcher and contains any panic it raises
func (l *Loader) fetch(ctx context.Context, id string) (resp *model.MovieResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FetchError{ID: id, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	resp, err = l.fetcher.FetchMovie(ctx, id)
	if err != nil {
		return nil, &FetchError{ID: id, Err: err}
	}
	return resp, nil
}
