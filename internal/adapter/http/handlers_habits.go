package adapthttp

import (
	"errors"
	"io"
	"net/http"

	"habitstreak/internal/domain"
)

type habitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	habits, err := s.habits.List(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if habits == nil {
		habits = []domain.Habit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": habits})
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var body habitRequest
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	h, err := s.habits.Create(r.Context(), user.ID, body.Title, body.Description, body.Frequency)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"habit": h})
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h, err := s.habits.Get(r.Context(), userFromContext(r).ID, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"habit": h})
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var body habitRequest
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h, err := s.habits.Update(r.Context(), userFromContext(r).ID, id, body.Title, body.Description, body.Frequency)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"habit": h})
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.habits.Delete(r.Context(), userFromContext(r).ID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (s *Server) handleListCompletions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.habits.ListCompletions(r.Context(), userFromContext(r).ID, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Completion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	// The body is optional.
	var body struct {
		Notes string `json:"notes"`
	}
	if err := parseJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := s.habits.Complete(r.Context(), userFromContext(r).ID, id, body.Notes)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"completion": c})
}

func (s *Server) handleDeleteCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cid, err := pathID(r, "cid")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.habits.DeleteCompletion(r.Context(), userFromContext(r).ID, id, cid); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": cid})
}
