package frontend

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"github.com/Ahmed-Sermani/linkrec/indexer"
	"github.com/Ahmed-Sermani/linkrec/recommend"
	"github.com/go-chi/chi/v5"
	"golang.org/x/xerrors"
)

// OutcomeHeader reports how a recommendation request concluded.
const OutcomeHeader = "X-Recommend-Outcome"

var errMalformedPath = xerrors.New("malformed request path")

type errorRes struct {
	Error string `json:"error"`
}

func (svc *Service) renderPing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

func (svc *Service) renderLikedUrls(w http.ResponseWriter, r *http.Request) {
	svc.renderUrlsByRelation(w, r, graph.Likes)
}

func (svc *Service) renderOwnedUrls(w http.ResponseWriter, r *http.Request) {
	svc.renderUrlsByRelation(w, r, graph.Owns)
}

func (svc *Service) renderUrlsByRelation(w http.ResponseWriter, r *http.Request, relation graph.Relation) {
	urls, err := svc.cfg.GraphAPI.ListUrlsByRelation(r.Context(), chi.URLParam(r, "user"), relation)
	if err != nil {
		svc.renderError(w, r, err)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, urls)
}

func (svc *Service) renderSearch(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	// chi matches against the raw path when the request carries one.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(query)
		if err != nil {
			svc.renderError(w, r, xerrors.Errorf("%w: %v", errMalformedPath, err))
			return
		}
		query = unescaped
	}

	res, err := svc.engine.Search(r.Context(), chi.URLParam(r, "user"), query)
	if err != nil {
		svc.renderError(w, r, err)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, res)
}

func (svc *Service) renderRecommend(w http.ResponseWriter, r *http.Request) {
	res, err := svc.engine.Recommend(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		svc.renderError(w, r, err)
		return
	}

	w.Header().Set(OutcomeHeader, res.Outcome.String())
	if res.Outcome != recommend.Recommended {
		svc.renderJSON(w, r, http.StatusOK, nil)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, res.Search)
}

func (svc *Service) renderJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLogger(r, svc.cfg.Logger).WithField("err", err).Error("unable to encode response")
	}
}

func (svc *Service) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		requestLogger(r, svc.cfg.Logger).WithField("err", err).Error("request failed")
	}
	svc.renderJSON(w, r, status, errorRes{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case xerrors.Is(err, errMalformedPath),
		xerrors.Is(err, graph.ErrInvalidRelation),
		xerrors.Is(err, indexer.ErrMissingDocumentKeys),
		xerrors.Is(err, indexer.ErrEmptyQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
