package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"monbondhu/chat"
	"monbondhu/conversation"
	"monbondhu/database/postgres"
	"monbondhu/logger"
	"monbondhu/modelapi"
	"monbondhu/persona"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type ApiConnectProps struct {
	Logger *logger.LogMiddleware
	Chat   *chat.Service
	DB     *postgres.Database
}

type Api struct {
	logger *logger.LogMiddleware
	chat   *chat.Service
	db     *postgres.Database
}

func Connect(args ApiConnectProps) *Api {
	return &Api{logger: args.Logger, chat: args.Chat, db: args.DB}
}

// Router builds the HTTP surface: a stateless chat endpoint for clients that
// keep their own history, plus profile CRUD and persisted chat.
func (a *Api) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(a.requestLoggerMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", a.handleStatelessChat)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", a.handleListProfiles)
			r.Post("/", a.handleCreateProfile)
			r.Route("/{profileID}", func(r chi.Router) {
				r.Get("/", a.handleGetProfile)
				r.Put("/", a.handleUpdateProfile)
				r.Delete("/", a.handleDeleteProfile)
				r.Get("/messages", a.handleListMessages)
				r.Post("/chat", a.handlePersistedChat)
			})
		})
	})

	return r
}

func (a *Api) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		a.logger.Logger(ctx).Info("Request Received", zap.String("url", r.URL.Path), zap.String("method", r.Method))
		next.ServeHTTP(w, r)
		a.logger.Logger(ctx).Info("Request Completed", zap.String("path", r.URL.Path), zap.String("method", r.Method))
	})
}

// userID comes from the auth layer in front of this service; a bare header
// is enough here, with a local fallback for development.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "local"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (a *Api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Logger(r.Context()).Error("[API] Request failed", zap.Error(err))

	if errors.Is(err, conversation.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message text must not be empty."})
		return
	}
	if errors.Is(err, postgres.ErrProfileNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Bot profile not found."})
		return
	}

	var pe *modelapi.ProviderError
	if errors.As(err, &pe) {
		status := http.StatusBadGateway
		switch pe.Kind {
		case modelapi.KindConfiguration:
			status = http.StatusServiceUnavailable
		case modelapi.KindQuota:
			status = http.StatusTooManyRequests
		case modelapi.KindTimeout:
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, errorResponse{Error: pe.UserMessage, Retryable: pe.Retryable()})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Something went wrong. Please try again."})
}

type statelessChatRequest struct {
	UserMessage string                   `json:"userMessage"`
	BotProfile  persona.BotProfile       `json:"botProfile"`
	ChatHistory []conversation.Utterance `json:"chatHistory"`
}

func (a *Api) handleStatelessChat(w http.ResponseWriter, r *http.Request) {
	tracer := otel.Tracer("api/handleStatelessChat")
	ctx, span := tracer.Start(r.Context(), "handleStatelessChat")
	defer span.End()

	var req statelessChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request body."})
		return
	}
	if err := req.BotProfile.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := a.chat.GenerateReply(ctx, req.BotProfile, req.ChatHistory, req.UserMessage)
	if err != nil {
		span.RecordError(err)
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type persistedChatRequest struct {
	Message string `json:"message"`
}

func (a *Api) handlePersistedChat(w http.ResponseWriter, r *http.Request) {
	tracer := otel.Tracer("api/handlePersistedChat")
	ctx, span := tracer.Start(r.Context(), "handlePersistedChat")
	defer span.End()

	var req persistedChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request body."})
		return
	}

	user := userID(r)
	profile, err := a.db.GetProfile(ctx, user, chi.URLParam(r, "profileID"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	result, err := a.chat.SendMessage(ctx, user, profile, req.Message)
	if err != nil {
		span.RecordError(err)
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *Api) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile persona.BotProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request body."})
		return
	}
	if err := profile.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	created, err := a.db.CreateProfile(r.Context(), userID(r), profile)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *Api) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := a.db.ListProfiles(r.Context(), userID(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (a *Api) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := a.db.GetProfile(r.Context(), userID(r), chi.URLParam(r, "profileID"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *Api) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile persona.BotProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request body."})
		return
	}
	profile.ID = chi.URLParam(r, "profileID")
	if err := profile.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	updated, err := a.db.UpdateProfile(r.Context(), userID(r), profile)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *Api) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := a.db.DeleteProfile(r.Context(), userID(r), chi.URLParam(r, "profileID")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := a.db.RecentMessages(r.Context(), userID(r), chi.URLParam(r, "profileID"), 50)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
