package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"career-guide/internal/common/errors"
	linkedinaudit "career-guide/internal/workers/ai/linkedin-audit"
	searchpredictions "career-guide/internal/workers/data-access/search-predictions"
	generateportfolio "career-guide/internal/workers/portfolio/generate-portfolio"
	profilefetch "career-guide/internal/workers/profile/profile-fetch"
)

func (s *Server) fetchProfile(w http.ResponseWriter, r *http.Request) {
	in := &profilefetch.Input{Email: r.PathValue("email")}
	out, err := s.deps.FetchProfile(r.Context(), in)
	respond(s, w, r, out, err, http.StatusOK, messageOnNotFound)
}

func (s *Server) searchPredictions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := &searchpredictions.Input{
		UserEmail: q.Get("email"),
		Career:    q.Get("career"),
	}

	var err error
	if in.From, err = queryInt(q.Get("from")); err != nil {
		respond[searchpredictions.Output](s, w, r, nil, errors.NewValidationError("from must be an integer"), http.StatusOK, errorBody)
		return
	}
	if in.Size, err = queryInt(q.Get("size")); err != nil {
		respond[searchpredictions.Output](s, w, r, nil, errors.NewValidationError("size must be an integer"), http.StatusOK, errorBody)
		return
	}

	out, err := s.deps.SearchPredictions(r.Context(), in)
	respond(s, w, r, out, err, http.StatusOK, errorBody)
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// auditLinkedIn accepts either JSON or a multipart form carrying the profile
// export in a "file" part.
func (s *Server) auditLinkedIn(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		jsonRoute(s, s.deps.AuditLinkedIn, http.StatusOK, errorBody)(w, r)
		return
	}

	form, err := parseMultipart(w, r)
	if err != nil {
		respond[linkedinaudit.Output](s, w, r, nil, err, http.StatusOK, errorBody)
		return
	}
	defer form.RemoveAll()

	in := &linkedinaudit.Input{
		Content: formValue(form, "content"),
		Career:  formValue(form, "career"),
		Type:    formValue(form, "type"),
	}
	if fhs := form.File["file"]; len(fhs) > 0 {
		data, contentType, err := readPart(fhs[0])
		if err != nil {
			respond[linkedinaudit.Output](s, w, r, nil, err, http.StatusOK, errorBody)
			return
		}
		in.Document = &linkedinaudit.Document{
			Filename:    fhs[0].Filename,
			ContentType: contentType,
			Data:        data,
		}
	}

	out, err := s.deps.AuditLinkedIn(r.Context(), in)
	respond(s, w, r, out, err, http.StatusOK, errorBody)
}

func (s *Server) generatePortfolio(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		respond[generateportfolio.Output](s, w, r, nil,
			errors.NewValidationError("multipart/form-data is required"), http.StatusOK, errorBody)
		return
	}

	form, err := parseMultipart(w, r)
	if err != nil {
		respond[generateportfolio.Output](s, w, r, nil, err, http.StatusOK, errorBody)
		return
	}
	defer form.RemoveAll()

	in := &generateportfolio.Input{Files: make(map[string]generateportfolio.Upload)}

	raw := formValue(form, "userData")
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), &in.UserData); err != nil {
		respond[generateportfolio.Output](s, w, r, nil,
			errors.NewValidationError(fmt.Sprintf("invalid userData: %v", err)), http.StatusOK, errorBody)
		return
	}

	for field, fhs := range form.File {
		if len(fhs) == 0 {
			continue
		}
		data, contentType, err := readPart(fhs[0])
		if err != nil {
			respond[generateportfolio.Output](s, w, r, nil, err, http.StatusOK, errorBody)
			return
		}
		in.Files[field] = generateportfolio.Upload{
			Filename:    fhs[0].Filename,
			ContentType: contentType,
			Data:        data,
		}
	}

	out, err := s.deps.GeneratePortfolio(r.Context(), in)
	respond(s, w, r, out, err, http.StatusOK, errorBody)
}

func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploads == nil {
		http.NotFound(w, r)
		return
	}
	name := r.PathValue("filename")
	f, err := s.deps.Uploads.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func parseMultipart(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, errors.NewValidationError(fmt.Sprintf("invalid multipart form: %v", err))
	}
	return r.MultipartForm, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func readPart(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", errors.NewValidationError(fmt.Sprintf("could not open upload %q", fh.Filename))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.NewValidationError(fmt.Sprintf("could not read upload %q", fh.Filename))
	}
	return data, fh.Header.Get("Content-Type"), nil
}
