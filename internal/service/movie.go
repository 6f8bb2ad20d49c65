package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"movie-page-service/internal/model"
	"movie-page-service/pkg/httpclient"

	"github.com/rs/zerolog/log"
)

// MovieService handles movie API interactions
type MovieService struct {
	client  *httpclient.Client
	baseURL string
}

// NewMovieService creates a new MovieService
func NewMovieService(client *httpclient.Client, baseURL string) *MovieService {
	return &MovieService{
		client:  client,
		baseURL: baseURL,
	}
}

// FetchMovie gets a single movie record by id
func (s *MovieService) FetchMovie(ctx context.Context, id string) (*model.MovieResponse, error) {
	u := fmt.Sprintf("%s/movie/%s", s.baseURL, url.PathEscape(id))

	data, err := s.client.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie: %w", err)
	}

	var result model.MovieResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse movie response: %w", err)
	}

	log.Debug().
		Str("id", id).
		Str("status", result.Status).
		Msg("Fetched movie")

	return &result, nil
}

// BaseURL returns the configured movie API base URL
func (s *MovieService) BaseURL() string {
	return s.baseURL
}
