package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type folderRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.Folders.List(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, folders)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	folder, err := s.Folders.Create(r.Context(), userFromContext(r.Context()).ID, req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, folder)
}

func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := s.Folders.Get(r.Context(), userFromContext(r.Context()).ID, chi.URLParam(r, "folderID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, folder)
}

func (s *Server) handleRenameFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	folder, err := s.Folders.Rename(r.Context(), userFromContext(r.Context()).ID, chi.URLParam(r, "folderID"), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, folder)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.Folders.Delete(r.Context(), userFromContext(r.Context()).ID, chi.URLParam(r, "folderID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFolderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Folders.Stats(r.Context(), userFromContext(r.Context()).ID, chi.URLParam(r, "folderID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
