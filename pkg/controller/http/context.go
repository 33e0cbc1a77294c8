package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/usecase"
	"github.com/secmon-lab/butler/pkg/utils/async"
	"github.com/secmon-lab/butler/pkg/utils/errutil"
	"github.com/secmon-lab/butler/pkg/utils/safe"
)

type gatherRequest struct {
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	ProjectID      string `json:"project_id,omitempty"`
}

type gatherResponse struct {
	Context    string   `json:"context"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

func gatherHandler(uc *usecase.ContextUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req gatherRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid gather request"), http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.Message == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("user_id and message are required"), http.StatusBadRequest)
			return
		}

		var opts []usecase.GatherOption
		if req.ConversationID != "" {
			opts = append(opts, usecase.WithConversation(req.ConversationID))
		}
		if req.ProjectID != "" {
			opts = append(opts, usecase.WithProject(req.ProjectID))
		}

		bundle := uc.GatherRelevantContext(ctx, req.Message, req.UserID, opts...)

		resp := gatherResponse{
			Context:    uc.FormatContextForAI(bundle),
			Confidence: bundle.Confidence,
			Sources:    make([]string, 0, len(bundle.Sources)),
		}
		for _, src := range bundle.Sources {
			resp.Sources = append(resp.Sources, src.String())
		}

		writeJSON(w, r, resp)
	}
}

type searchRequest struct {
	UserID    string  `json:"user_id"`
	Query     string  `json:"query"`
	Limit     int     `json:"limit,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

type searchHit struct {
	ID      string  `json:"id"`
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score"`
}

func searchHandler(uc *usecase.ContextUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid search request"), http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.Query == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("user_id and query are required"), http.StatusBadRequest)
			return
		}

		scored := uc.VectorSearch(ctx, req.UserID, req.Query, req.Limit, req.Threshold)

		hits := make([]searchHit, 0, len(scored))
		for _, sc := range scored {
			hits = append(hits, searchHit{
				ID:      string(sc.Chunk.ID),
				Title:   sc.Chunk.Metadata.Title,
				Content: sc.Chunk.Content,
				Source:  sc.Chunk.Metadata.Source,
				Score:   sc.Score,
			})
		}

		writeJSON(w, r, map[string]any{"results": hits})
	}
}

type cacheRequest struct {
	UserID string `json:"user_id,omitempty"`
}

func cacheInvalidateHandler(uc *usecase.ContextUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req cacheRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid cache request"), http.StatusBadRequest)
			return
		}

		uc.InvalidateCache(req.UserID)

		writeJSON(w, r, map[string]string{"status": "ok"})
	}
}

func cacheWarmHandler(uc *usecase.ContextUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req cacheRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid cache request"), http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("user_id is required"), http.StatusBadRequest)
			return
		}

		// Warming reloads the user's whole chunk set, so run it off the
		// request goroutine and report acceptance only.
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.WarmCache(ctx, req.UserID)
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		safe.Write(ctx, w, []byte(`{"status":"accepted"}`))
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, data)
}
