package server

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
)

// AnalyzeJSONRequest is the JSON form of POST /analyze.
type AnalyzeJSONRequest struct {
	ResumeBase64  string `json:"resume_base64,omitempty"`
	FileName      string `json:"file_name,omitempty"`
	ResumeCacheID string `json:"resume_cache_id,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	JobID         string `json:"job_id,omitempty"`
	JobURL        string `json:"job_url,omitempty"`
	JobText       string `json:"job_text,omitempty"`
}

// Form field names of the multipart form of POST /analyze.
const (
	fieldResume        = "resume"
	fieldResumeCacheID = "resume_cache_id"
	fieldUserID        = "user_id"
	fieldJobID         = "job_id"
	fieldJobURL        = "job_url"
	fieldJobText       = "job_text"
)

// pdfContentTypes are the part types accepted for an uploaded resume. An
// empty or generic type is left to the %PDF check.
var pdfContentTypes = map[string]bool{
	"":                         true,
	"application/pdf":          true,
	"application/x-pdf":        true,
	"application/octet-stream": true,
}

// handleAnalyze runs one analysis and returns the result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseAnalyzeRequest(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeStream runs an analysis and streams progress events followed
// by a result or error event.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseAnalyzeRequest(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	stream, err := openEventStream(w)
	if err != nil {
		s.errorResponse(w, r, apperr.Wrap(apperr.KindInternal, err, "streaming not supported"))
		return
	}

	ctx := analysis.WithProgress(r.Context(), func(step analysis.Step) {
		if err := stream.send("progress", map[string]string{"step": string(step)}); err != nil {
			s.logger.Debug().Err(err).Msg("progress event dropped")
		}
	})
	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(apperr.KindOf(err))).Msg("streamed analysis failed")
		stream.send("error", ErrorResponse{Error: apperr.Message(err), Kind: string(apperr.KindOf(err))}) //nolint:errcheck
		return
	}
	if err := stream.send("result", result); err != nil {
		s.logger.Warn().Err(err).Msg("result event not delivered")
	}
}

// parseAnalyzeRequest reads either a multipart upload or a JSON body with
// base64 resume bytes.
func (s *Server) parseAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analysis.Request, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return analysis.Request{}, apperr.New(apperr.KindValidation, "a Content-Type of multipart/form-data or application/json is required")
	}
	switch mediaType {
	case "multipart/form-data":
		return s.parseMultipart(w, r)
	case "application/json":
		return s.parseAnalyzeJSON(w, r)
	default:
		return analysis.Request{}, apperr.New(apperr.KindValidation, "unsupported content type %q", mediaType)
	}
}

func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) (analysis.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return analysis.Request{}, s.bodyErr(err)
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	req := analysis.Request{
		ResumeCacheID: r.FormValue(fieldResumeCacheID),
		UserID:        r.FormValue(fieldUserID),
		Job: jobsource.Request{
			JobID:   r.FormValue(fieldJobID),
			JobURL:  r.FormValue(fieldJobURL),
			JobText: r.FormValue(fieldJobText),
		},
	}

	file, header, err := r.FormFile(fieldResume)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		return analysis.Request{}, apperr.Wrap(apperr.KindValidation, err, "could not read the uploaded resume")
	}
	defer file.Close()

	if err := s.checkUpload(header); err != nil {
		return analysis.Request{}, err
	}
	data, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		return analysis.Request{}, apperr.Wrap(apperr.KindValidation, err, "could not read the uploaded resume")
	}
	req.Resume = data
	req.FileName = header.Filename
	return req, nil
}

func (s *Server) checkUpload(header *multipart.FileHeader) error {
	if header.Size > s.maxUpload {
		return apperr.New(apperr.KindValidation, "resume file exceeds the %d MB limit", s.maxUpload>>20)
	}
	ct := header.Header.Get("Content-Type")
	if ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			ct = mt
		}
	}
	if !pdfContentTypes[strings.ToLower(ct)] {
		return apperr.New(apperr.KindValidation, "only PDF resumes are supported, got %q", ct)
	}
	return nil
}

func (s *Server) parseAnalyzeJSON(w http.ResponseWriter, r *http.Request) (analysis.Request, error) {
	// base64 inflates by 4/3; leave room for the other fields.
	limit := s.maxUpload*4/3 + 64<<10
	var body AnalyzeJSONRequest
	if err := decodeJSON(w, r, limit, &body); err != nil {
		return analysis.Request{}, err
	}

	req := analysis.Request{
		FileName:      body.FileName,
		ResumeCacheID: body.ResumeCacheID,
		UserID:        body.UserID,
		Job:           jobsource.Request{JobID: body.JobID, JobURL: body.JobURL, JobText: body.JobText},
	}
	if encoded := stripDataURL(body.ResumeBase64); encoded != "" {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return analysis.Request{}, apperr.Wrap(apperr.KindValidation, err, "resume_base64 is not valid base64")
		}
		req.Resume = data
	}
	return req, nil
}

// stripDataURL accepts both bare base64 and a data: URL.
func stripDataURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

func (s *Server) bodyErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return apperr.New(apperr.KindValidation, "resume file exceeds the %d MB limit", s.maxUpload>>20)
	}
	return apperr.Wrap(apperr.KindValidation, err, "invalid multipart form")
}

// handleGetMetadata returns one resume metadata record.
func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if s.metadata == nil {
		s.errorResponse(w, r, apperr.New(apperr.KindConfiguration, "resume cache is not available"))
		return
	}
	rec, err := s.metadata.GetMetadata(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, apperr.Wrap(apperr.KindInternal, err, "failed to read resume metadata"))
		return
	}
	if rec == nil {
		s.errorResponse(w, r, apperr.New(apperr.KindNotFound, "resume metadata %s not found", id))
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}
