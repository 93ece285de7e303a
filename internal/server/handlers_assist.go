package server

import (
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// ATSRequest names the job a project is screened against.
type ATSRequest struct {
	JobID   string `json:"job_id,omitempty"`
	JobURL  string `json:"job_url,omitempty"`
	JobText string `json:"job_text,omitempty"`
}

func (s *Server) handleAssistSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	out, err := s.builder.GenerateSummary(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleAssistBullets(w http.ResponseWriter, r *http.Request) {
	var req types.BulletsRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	out, err := s.builder.RewriteBullets(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleAssistATS(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req ATSRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	out, err := s.builder.CheckATS(r.Context(), id, jobsource.Request{
		JobID:   req.JobID,
		JobURL:  req.JobURL,
		JobText: req.JobText,
	})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}
