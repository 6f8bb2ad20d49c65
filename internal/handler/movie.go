package handler

import (
	"encoding/json"
	"net/http"

	"movie-page-service/internal/middleware"
	"movie-page-service/internal/model"
	"movie-page-service/internal/moviepage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MovieHandler serves the movie detail page
type MovieHandler struct {
	loader *moviepage.Loader
	locale *moviepage.Locale
}

// NewMovieHandler creates a new MovieHandler
func NewMovieHandler(loader *moviepage.Loader, locale *moviepage.Locale) *MovieHandler {
	return &MovieHandler{
		loader: loader,
		locale: locale,
	}
}

// GetMoviePage renders the movie page as HTML
// GET /movie/:id
// GET /movie
func (h *MovieHandler) GetMoviePage(c *gin.Context) {
	state := h.loader.Load(c.Request.Context(), c.Param("id"))
	view := moviepage.Render(state, h.strings(c))

	h.annotate(c, state)
	c.HTML(statusFor(state), moviepage.PageTemplate, view)
}

// GetMovieView returns the state and view tree as JSON
// GET /api/v1/movie/:id
func (h *MovieHandler) GetMovieView(c *gin.Context) {
	id := c.Param("id")
	state := h.loader.Load(c.Request.Context(), id)
	view := moviepage.Render(state, h.strings(c))

	h.annotate(c, state)

	status := statusFor(state)
	resp := model.APIResponse{
		Code: status,
		Data: gin.H{
			"id":    id,
			"state": state,
			"view":  view,
		},
	}
	if state.Phase() != moviepage.PhaseLoaded {
		resp.Error = view.Message
	}
	c.JSON(status, resp)
}

// StreamMovie streams the page transitions as server-sent events:
// a loading event followed by the settled outcome.
// GET /api/v1/movie/:id/stream
func (h *MovieHandler) StreamMovie(c *gin.Context) {
	ctx := c.Request.Context()
	strings := h.strings(c)

	updates := make(chan moviepage.Snapshot, 4)
	page := moviepage.NewPage(h.loader, func(s moviepage.Snapshot) {
		updates <- s
	})
	defer page.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	page.Navigate(ctx, c.Param("id"))

	for {
		select {
		case snap := <-updates:
			payload, err := json.Marshal(gin.H{
				"id":         snap.ID,
				"generation": snap.Generation,
				"state":      snap.State,
				"view":       moviepage.Render(snap.State, strings),
			})
			if err != nil {
				log.Error().Err(err).Str("id", snap.ID).Msg("Failed to encode state event")
				return
			}
			c.SSEvent("state", string(payload))
			c.Writer.Flush()

			if snap.State.Settled() {
				c.Set(middleware.ViewPhaseKey, snap.State.Phase().String())
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// strings negotiates page text from ?lang= and Accept-Language
func (h *MovieHandler) strings(c *gin.Context) moviepage.Strings {
	return h.locale.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language"))
}

func statusFor(state moviepage.ViewState) int {
	switch state.Phase() {
	case moviepage.PhaseLoaded:
		return http.StatusOK
	case moviepage.PhaseNotFound:
		return http.StatusNotFound
	case moviepage.PhaseError:
		if state.Reason() == moviepage.ErrorMissingIdentifier {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusAccepted
	}
}

// annotate exposes the outcome to the logging and metrics middleware
func (h *MovieHandler) annotate(c *gin.Context, state moviepage.ViewState) {
	c.Set(middleware.ViewPhaseKey, state.Phase().String())
	if err := state.Err(); err != nil {
		_ = c.Error(err)
	}
}
