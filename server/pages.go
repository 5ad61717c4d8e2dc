package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"linkedin_post_automation/compose"
	"linkedin_post_automation/form"
	"linkedin_post_automation/linkpreview"
	"linkedin_post_automation/uploader"
)

type pageData struct {
	Nav    []navLink
	Title  string
	Result *compose.Result

	Type       form.ContentType
	Values     map[string]string
	Invalid    string
	Tones      []string
	Intents    []string
	Visibility []compose.VisibilityOption
	MinWords   int
	MaxWords   int

	NeedsURL bool
	IsURL    bool
	IsImage  bool
	IsVideo  bool
	Preview  *linkpreview.Preview

	MaxImages  int
	ImageFiles []string
	ImageURLs  []string
	ImageError string
	VideoFile  string
	VideoURL   string
	VideoError string
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "about", pageData{Nav: navigation(""), Title: "About"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ct, ok := pathType(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	ws, err := s.browserSession(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderCompose(w, http.StatusOK, ct, ws, nil, nil)
}

// handlePageAction applies the submitted fields, then runs the button that
// was pressed and re-renders the page with its outcome.
func (s *Server) handlePageAction(w http.ResponseWriter, r *http.Request) {
	ct, ok := pathType(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.parseUpload(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	action := r.PostForm.Get("action")
	if action == "reset" {
		ws, err := s.resetBrowserSession(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.renderCompose(w, http.StatusOK, ct, ws, &compose.Result{OK: true, Message: "Form cleared."}, nil)
		return
	}

	ws, err := s.browserSession(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	applyValues(ws, ct, r.PostForm)

	ctx, cancel := s.actionContext(r)
	defer cancel()

	var (
		res     compose.Result
		preview *linkpreview.Preview
	)
	switch action {
	case "generate":
		_, err = ws.Generate(ctx, ct)
		res = compose.Outcome(compose.MsgGenerated, err)
	case "select_images", "upload_images":
		res, err = stageImages(ws, r)
		if err == nil && action == "upload_images" {
			_, err = ws.Images.ConfirmAndUpload(ctx)
			res = compose.Outcome(compose.MsgImagesUploaded, err)
		}
	case "select_video", "upload_video":
		res, err = stageVideo(ws, r)
		if err == nil && action == "upload_video" {
			_, err = ws.Video.ConfirmAndUpload(ctx)
			res = compose.Outcome(compose.MsgVideoUploaded, err)
		}
	case "preview":
		preview, err = ws.Preview(ctx)
		res = compose.Outcome(compose.MsgPreviewed, err)
	case "submit":
		err = ws.Submit(ctx, ct)
		res = compose.Outcome(compose.MsgPublished, err)
	default:
		err = fmt.Errorf("unknown action %q", action)
		res = compose.Outcome("", err)
	}
	if err != nil {
		s.logger.Info("page action failed", zap.String("type", string(ct)), zap.String("action", action), zap.Error(err))
	}
	s.renderCompose(w, http.StatusOK, ct, ws, &res, preview)
}

// applyValues copies the text fields present in the submitted form.
func applyValues(ws *compose.Workspace, ct form.ContentType, values url.Values) {
	for _, field := range form.TextFields {
		if v, ok := values[field]; ok && len(v) > 0 {
			ws.ApplyField(ct, form.Change{Field: field, Value: v[0]})
		}
	}
}

// stageImages selects the images attached to the request. Without
// attachments the current selection is kept.
func stageImages(ws *compose.Workspace, r *http.Request) (compose.Result, error) {
	files, err := formFiles(r, form.FieldPostImage)
	if err != nil {
		return compose.Outcome("", err), err
	}
	if len(files) > 0 {
		if err := ws.Images.Select(files); err != nil {
			return compose.Outcome("", err), err
		}
	}
	n := len(ws.Store.Snapshot().PostImage)
	return compose.Result{OK: true, Message: fmt.Sprintf("%d image(s) selected.", n)}, nil
}

func stageVideo(ws *compose.Workspace, r *http.Request) (compose.Result, error) {
	files, err := formFiles(r, form.FieldPostVideo)
	if err != nil {
		return compose.Outcome("", err), err
	}
	if len(files) > 1 {
		err := form.Invalid(form.FieldPostVideo, "please select a single video")
		return compose.Outcome("", err), err
	}
	if len(files) == 1 {
		if err := ws.Video.Select(files[0]); err != nil {
			return compose.Outcome("", err), err
		}
	}
	if v := ws.Store.Snapshot().PostVideo; v != nil {
		return compose.Result{OK: true, Message: fmt.Sprintf("%s selected.", v.Name())}, nil
	}
	return compose.Result{OK: true, Message: "No video selected."}, nil
}

// formFiles reads the files attached under field into memory.
func formFiles(r *http.Request, field string) ([]form.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []form.File
	for _, fh := range r.MultipartForm.File[field] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		out = append(out, form.MemFile{Filename: fh.Filename, Data: data})
	}
	return out, nil
}

func (s *Server) renderCompose(w http.ResponseWriter, status int, ct form.ContentType, ws *compose.Workspace, res *compose.Result, preview *linkpreview.Preview) {
	page, _ := compose.PageFor(ct)
	snap := ws.Store.Snapshot()
	data := pageData{
		Nav:        navigation(string(ct)),
		Title:      page.Title(),
		Result:     res,
		Type:       ct,
		Values:     ws.Store.Values(),
		Tones:      form.Tones,
		Intents:    form.Intents,
		Visibility: compose.VisibilityOptions,
		MinWords:   form.MinWordLimit,
		MaxWords:   form.MaxWordLimit,
		NeedsURL:   ct.NeedsURL(),
		IsURL:      ct == form.ContentURL,
		IsImage:    ct == form.ContentImage,
		IsVideo:    ct == form.ContentVideo,
		Preview:    preview,
		MaxImages:  uploader.MaxImages,
		ImageFiles: form.FileNames(snap.PostImage),
		ImageURLs:  snap.ImageURLs,
		ImageError: ws.Images.LastError(),
		VideoURL:   snap.VideoURL,
		VideoError: ws.Video.LastError(),
	}
	if snap.PostVideo != nil {
		data.VideoFile = snap.PostVideo.Name()
	}
	if res != nil {
		data.Invalid = res.Field
	}
	s.render(w, status, "compose", data)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	tmpl, ok := s.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		s.logger.Error("render page", zap.String("page", name), zap.Error(err))
	}
}
