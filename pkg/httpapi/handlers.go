package httpapi

import (
	"encoding/json"
	"net/http"
)

type downloadRequest struct {
	RemotePath  string `json:"remote_path"`
	LocalFolder string `json:"local_folder"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req downloadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		progress, err := s.client.Download(ctx, req.RemotePath, req.LocalFolder)
		if err != nil {
			writeError(dw, err)
			return
		}
		writeJSON(dw, http.StatusOK, progress)
	})
}

type uploadRequest struct {
	LocalPath    string `json:"local_path"`
	RemoteFolder string `json:"remote_folder"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		progress, err := s.client.Upload(ctx, req.LocalPath, req.RemoteFolder)
		if err != nil {
			writeError(dw, err)
			return
		}
		writeJSON(dw, http.StatusOK, progress)
	})
}

type pathRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req pathRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		if err := s.client.Remove(ctx, req.Path); err != nil {
			writeError(dw, err)
		}
	})
}

func (s *Server) handleCreateDir(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req pathRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		if err := s.client.CreateDir(ctx, req.Path); err != nil {
			writeError(dw, err)
		}
	})
}

func (s *Server) handleRemoveDir(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req pathRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		if err := s.client.RemoveDir(ctx, req.Path); err != nil {
			writeError(dw, err)
		}
	})
}

type renameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req renameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		if err := s.client.Rename(ctx, req.From, req.To); err != nil {
			writeError(dw, err)
		}
	})
}

type compareRequest struct {
	LocalPath  string `json:"local_path"`
	RemotePath string `json:"remote_path"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req compareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		identical, err := s.client.CompareFiles(ctx, req.LocalPath, req.RemotePath)
		if err != nil {
			writeError(dw, err)
			return
		}
		writeJSON(dw, http.StatusOK, map[string]bool{"identical": identical})
	})
}

func (s *Server) handleListDir(w http.ResponseWriter, r *http.Request) {
	s.wrap(w, func(dw *doneWriter) {
		var req pathRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(dw, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx, cancel := s.context(r)
		defer cancel()
		entries, err := s.client.ListDir(ctx, req.Path)
		if err != nil {
			writeError(dw, err)
			return
		}
		writeJSON(dw, http.StatusOK, map[string][]string{"entries": entries})
	})
}
