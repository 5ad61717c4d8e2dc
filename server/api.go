package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"linkedin_post_automation/compose"
	"linkedin_post_automation/form"
	"linkedin_post_automation/linkpreview"
)

type stateResp struct {
	SessionID       string            `json:"session_id"`
	Fields          map[string]string `json:"fields"`
	ImageFiles      []string          `json:"image_files"`
	ImageURLs       []string          `json:"image_urls"`
	ImageError      string            `json:"image_error,omitempty"`
	VideoFile       string            `json:"video_file,omitempty"`
	VideoError      string            `json:"video_error,omitempty"`
	Generating      bool              `json:"generating"`
	UploadingImages bool              `json:"uploading_images"`
	UploadingVideo  bool              `json:"uploading_video"`
	Submitting      bool              `json:"submitting"`
}

type actionResp struct {
	compose.Result
	Preview *linkpreview.Preview `json:"preview,omitempty"`
	State   stateResp            `json:"state"`
}

func sessionState(id string, ws *compose.Workspace) stateResp {
	snap := ws.Store.Snapshot()
	st := stateResp{
		SessionID:       id,
		Fields:          ws.Store.Values(),
		ImageFiles:      form.FileNames(snap.PostImage),
		ImageURLs:       snap.ImageURLs,
		ImageError:      ws.Images.LastError(),
		VideoError:      ws.Video.LastError(),
		Generating:      ws.Generator.Busy(),
		UploadingImages: ws.Images.Busy(),
		UploadingVideo:  ws.Video.Busy(),
		Submitting:      ws.Submitting(),
	}
	if st.ImageFiles == nil {
		st.ImageFiles = []string{}
	}
	if st.ImageURLs == nil {
		st.ImageURLs = []string{}
	}
	if snap.PostVideo != nil {
		st.VideoFile = snap.PostVideo.Name()
	}
	return st
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ws, ok := s.store.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h(w, r, id, ws)
	}
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	id, ws, err := s.newWorkspace()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("session created", zap.String("session", id))
	writeJSON(w, http.StatusCreated, sessionState(id, ws))
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	writeJSON(w, http.StatusOK, sessionState(id, ws))
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if !s.store.delete(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFields applies a JSON object of field edits made on the page for
// the path's content type.
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	ct, ok := pathType(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown content type")
		return
	}
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// A rejected request must not touch the store, so check every key first.
	for field, v := range fields {
		if err := checkFieldValue(field, v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for field, v := range fields {
		ws.ApplyField(ct, form.Change{Field: field, Value: v})
	}
	writeJSON(w, http.StatusOK, sessionState(id, ws))
}

// checkFieldValue reports whether v may be written to field through the API.
// word_limit is passed on as sent so the store clamps it; everything else is
// text.
func checkFieldValue(field string, v any) error {
	if !form.Contains(form.TextFields, field) {
		return fmt.Errorf("unknown field %s", field)
	}
	if field == form.FieldWordLimit {
		return nil
	}
	if _, isString := v.(string); !isString && v != nil {
		return fmt.Errorf("%s must be a string", field)
	}
	return nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	ct, ok := pathType(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown content type")
		return
	}
	ctx, cancel := s.actionContext(r)
	defer cancel()
	_, err := ws.Generate(ctx, ct)
	s.writeAction(w, id, ws, compose.MsgGenerated, err, nil)
}

func (s *Server) handleImagesSelect(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	if err := s.parseUpload(w, r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	files, err := formFiles(r, form.FieldPostImage)
	if err == nil {
		err = ws.Images.Select(files)
	}
	s.writeAction(w, id, ws, "Images selected.", err, nil)
}

func (s *Server) handleImagesUpload(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	ctx, cancel := s.actionContext(r)
	defer cancel()
	_, err := ws.Images.ConfirmAndUpload(ctx)
	s.writeAction(w, id, ws, compose.MsgImagesUploaded, err, nil)
}

func (s *Server) handleVideoSelect(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	if err := s.parseUpload(w, r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	files, err := formFiles(r, form.FieldPostVideo)
	if err == nil {
		switch len(files) {
		case 0:
			err = ws.Video.Select(nil)
		case 1:
			err = ws.Video.Select(files[0])
		default:
			err = form.Invalid(form.FieldPostVideo, "please select a single video")
		}
	}
	s.writeAction(w, id, ws, "Video selected.", err, nil)
}

func (s *Server) handleVideoUpload(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	ctx, cancel := s.actionContext(r)
	defer cancel()
	_, err := ws.Video.ConfirmAndUpload(ctx)
	s.writeAction(w, id, ws, compose.MsgVideoUploaded, err, nil)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	ctx, cancel := s.actionContext(r)
	defer cancel()
	p, err := ws.Preview(ctx)
	s.writeAction(w, id, ws, compose.MsgPreviewed, err, p)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, id string, ws *compose.Workspace) {
	ct, ok := pathType(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown content type")
		return
	}
	ctx, cancel := s.actionContext(r)
	defer cancel()
	err := ws.Submit(ctx, ct)
	s.writeAction(w, id, ws, compose.MsgPublished, err, nil)
}

// handleLinkPreview previews a link without touching any session.
func (s *Server) handleLinkPreview(w http.ResponseWriter, r *http.Request) {
	if s.deps.Previewer == nil {
		writeError(w, http.StatusNotImplemented, "link preview is not available")
		return
	}
	link := r.URL.Query().Get("url")
	if link == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	ctx, cancel := s.actionContext(r)
	defer cancel()
	p, err := s.deps.Previewer.Fetch(ctx, link)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) writeAction(w http.ResponseWriter, id string, ws *compose.Workspace, success string, err error, p *linkpreview.Preview) {
	if err != nil {
		s.logger.Info("action failed", zap.String("session", id), zap.Error(err))
	}
	writeJSON(w, statusFor(err), actionResp{
		Result:  compose.Outcome(success, err),
		Preview: p,
		State:   sessionState(id, ws),
	})
}

// statusFor maps an action error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case form.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, form.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
