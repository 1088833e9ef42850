// Package web serves the recommendation page over HTTP, together with a
// small JSON API for the same operations.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vadimtrunov/PickSomething/internal/card"
	"github.com/vadimtrunov/PickSomething/internal/config"
	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/session"
)

// maxBodySize limits POST bodies to 1 MB.
const maxBodySize = 1 << 20

// Handler routes page and API requests. Every request gets its own session,
// so the server keeps no state between requests.
type Handler struct {
	searcher session.Searcher
	logger   *slog.Logger
	mux      *http.ServeMux
	next     http.Handler
}

// NewHandler creates the HTTP handler with its middleware chain.
func NewHandler(searcher session.Searcher, logger *slog.Logger) *Handler {
	if searcher == nil {
		panic("web.NewHandler: searcher must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{searcher: searcher, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.handlePage)
	h.mux.HandleFunc("GET /api/recommend", h.handleRecommend)
	h.mux.HandleFunc("POST /api/card", h.handleCard)
	h.mux.HandleFunc("GET /health", healthHandler)
	h.next = requestID(logger, accessLog(h.mux))
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.next.ServeHTTP(w, r)
}

// recommendResponse is the JSON body of /api/recommend.
type recommendResponse struct {
	State    session.State `json:"state"`
	Keyword  string        `json:"keyword"`
	Category core.Category `json:"category,omitempty"`
	Card     *card.Card    `json:"card,omitempty"`
	Notice   *core.Notice  `json:"notice,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// selection is the outcome of one page or API request.
type selection struct {
	snap   session.Snapshot
	card   *card.Card
	notice *core.Notice
}

// run replays the request against a fresh session: set the keyword, then
// pick a category when one is given.
func (h *Handler) run(r *http.Request, keyword, category string) (selection, error) {
	logger := config.LoggerFromContext(r.Context())
	sess := session.New(h.searcher, logger)
	sess.SetKeyword(keyword)

	var out selection
	if category != "" {
		cat, err := core.ParseCategory(category)
		if err != nil {
			out.snap = sess.Snapshot()
			return out, err
		}
		out.notice = sess.Select(r.Context(), cat).Notice
	}

	out.snap = sess.Snapshot()
	if out.snap.Recommendation != nil {
		c, err := card.Build(out.snap.Recommendation)
		if err != nil {
			return out, fmt.Errorf("build card: %w", err)
		}
		out.card = &c
	}
	return out, nil
}

// handleRecommend serves GET /api/recommend?q=&category=.
func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := h.run(r, q.Get("q"), q.Get("category"))
	if err != nil {
		if errors.Is(err, core.ErrUnknownCategory) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.internalError(w, r, err)
		return
	}

	status := http.StatusOK
	if sel.notice != nil {
		switch sel.notice.Kind {
		case core.NoticeWarning:
			status = http.StatusBadRequest
		case core.NoticeError:
			status = http.StatusBadGateway
		}
	}
	writeJSON(w, status, recommendResponse{
		State:    sel.snap.State,
		Keyword:  sel.snap.Keyword,
		Category: sel.snap.Category,
		Card:     sel.card,
		Notice:   sel.notice,
	})
}

// handleCard serves POST /api/card: an untagged item in, its card out.
func (h *Handler) handleCard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return
	}

	item, err := core.DecodeItem(raw)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrUnknownShape) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	c, err := card.Build(item)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handlePage serves the HTML page. q sets the keyword and category picks a
// category; "Get Another" links back to the same query, which picks again.
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := strings.TrimSpace(q.Get("q"))
	sel, err := h.run(r, keyword, q.Get("category"))
	if err != nil && !errors.Is(err, core.ErrUnknownCategory) {
		h.internalError(w, r, err)
		return
	}
	if err != nil {
		sel.notice = &core.Notice{Kind: core.NoticeWarning, Title: "Unknown category", Description: err.Error()}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, newPageData(sel)); err != nil {
		config.LoggerFromContext(r.Context()).Error("render page", slog.String("error", err.Error()))
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	config.LoggerFromContext(r.Context()).Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
