package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/hupe1980/promptdesk/artifact"
	"github.com/hupe1980/promptdesk/core"
	"github.com/hupe1980/promptdesk/model"
)

// defaultSessionID scopes chat history for browsers that do not send an
// explicit session header.
const defaultSessionID = "default"

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	chatModel, ok := s.chatModels[provider]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Unknown provider"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No message provided"})
		return
	}

	sessionID := s.sessionID(r)
	history, err := s.sessions.History(sessionID)
	if err != nil {
		s.logger.Error("failed to load chat history", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load chat history"})
		return
	}

	userMsg := core.NewUserMessage(message)
	start := time.Now()
	resp, err := chatModel.Chat(r.Context(), model.Request{
		Messages: append(history, userMsg),
	})
	if err != nil {
		s.logger.Error("chat completion failed", "provider", provider, "duration", time.Since(start).String(), "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Chat completion failed"})
		return
	}
	s.logger.Info("chat completion", "provider", provider, "model", resp.Model, "duration", time.Since(start).String())

	// History is best-effort: a failed append must not hide a successful
	// reply from the user.
	if err := s.sessions.Append(sessionID, userMsg); err != nil {
		s.logger.Warn("failed to append user message", "session_id", sessionID, "error", err)
	}
	if err := s.sessions.Append(sessionID, core.NewAssistantMessage(resp.Text)); err != nil {
		s.logger.Warn("failed to append assistant message", "session_id", sessionID, "error", err)
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: resp.Text})
}

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	if s.imageModel == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Image generation not configured"})
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No prompt provided"})
		return
	}

	start := time.Now()
	img, err := s.imageModel.GenerateImage(r.Context(), model.ImageRequest{Prompt: prompt})
	if err != nil {
		s.logger.Error("image generation failed", "duration", time.Since(start).String(), "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Image generation failed"})
		return
	}

	key, err := s.artifacts.Put(img.Data)
	if err != nil {
		// A failed write is fatal to this one request only.
		s.logger.Error("failed to store generated image", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to save generated image"})
		return
	}
	s.logger.Info("image generated", "key", key, "bytes", len(img.Data), "duration", time.Since(start).String())

	writeJSON(w, http.StatusOK, imageResponse{Key: key, URL: "/images/" + key})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	data, err := s.artifacts.Get(key)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			// Expected when the sweeper raced a lingering reference;
			// not logged as an error.
			http.NotFound(w, r)
			return
		}
		s.logger.Error("failed to read artifact", "key", key, "error", err)
		http.Error(w, "failed to read image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeForKey(key))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write image response", "key", key, "error", err)
	}
}

// handleClear discards all chat history and empties the artifact store. It
// always reports success once local deletions were attempted: files already
// gone are already satisfied.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.ClearAll(); err != nil {
		s.logger.Warn("failed to clear chat history", "error", err)
	}
	if err := s.artifacts.ClearAll(); err != nil {
		s.logger.Warn("failed to clear artifacts", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) sessionID(r *http.Request) string {
	if sid := r.Header.Get("X-Session-ID"); sid != "" {
		return sid
	}
	return defaultSessionID
}

func contentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "image/png"
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// rateLimited throttles provider-facing endpoints with a shared limiter.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests"})
			return
		}
		next(w, r)
	}
}
