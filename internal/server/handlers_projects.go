package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/builder"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProjectRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	p, err := s.builder.CreateProject(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	p, err := s.builder.GetProject(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req types.UpdateProjectRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	p, err := s.builder.UpdateProject(r.Context(), id, req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.builder.DeleteProject(r.Context(), id); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req types.SectionRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sec, err := s.builder.AddSection(r.Context(), id, req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, sec)
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req types.SectionRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sec, err := s.builder.UpdateSection(r.Context(), id, req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sec)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.builder.DeleteSection(r.Context(), id); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req types.ReorderRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	p, err := s.builder.ReorderSections(r.Context(), id, req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleAutoFill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	p, err := s.builder.AutoFill(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handlePreview returns the project rendered as HTML.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	html, err := s.builder.Preview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	writeHTML(w, html)
}

// ExportRequest selects the export format. The format query parameter
// takes precedence over the body.
type ExportRequest struct {
	Format string `json:"format"`
}

// handleExport returns the project as an HTML or PDF download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" && r.ContentLength > 0 {
		var req ExportRequest
		if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
			s.errorResponse(w, r, err)
			return
		}
		format = req.Format
	}

	out, err := s.builder.Export(r.Context(), id, format)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	ext := builder.FormatHTML
	if out.ContentType == "application/pdf" {
		ext = builder.FormatPDF
	}
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="resume-%s.%s"`, id, ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Body); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write export")
	}
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": s.builder.ListTemplates()})
}

func (s *Server) handleTemplatePreview(w http.ResponseWriter, r *http.Request) {
	html, err := s.builder.TemplatePreview(r.PathValue("slug"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	writeHTML(w, html)
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
