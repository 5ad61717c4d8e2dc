package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"linkedin_post_automation/form"
	"linkedin_post_automation/remote"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeMedia answers uploads by file name. Delays let later files finish
// first so ordering is exercised.
type fakeMedia struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	delays map[string]time.Duration
}

func (f *fakeMedia) upload(ctx context.Context, file form.File) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, file.Name())
	f.mu.Unlock()
	if d := f.delays[file.Name()]; d > 0 {
		time.Sleep(d)
	}
	if err := f.fail[file.Name()]; err != nil {
		return "", err
	}
	return "https://cdn.example/" + file.Name(), nil
}

func (f *fakeMedia) UploadImage(ctx context.Context, file form.File) (string, error) {
	return f.upload(ctx, file)
}

func (f *fakeMedia) UploadVideo(ctx context.Context, file form.File) (string, error) {
	return f.upload(ctx, file)
}

func images(n int) []form.File {
	files := make([]form.File, n)
	for i := range files {
		files[i] = form.MemFile{Filename: fmt.Sprintf("img%d.png", i+1), Data: []byte("x")}
	}
	return files
}

func TestImageSelect_TooManyClearsSelection(t *testing.T) {
	store := form.NewStore()
	u, err := NewImageUploader(&fakeMedia{}, store, nil)
	require.NoError(t, err)

	require.NoError(t, u.Select(images(2)))
	require.Len(t, store.Snapshot().PostImage, 2)

	err = u.Select(images(7))
	var ve *form.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, form.FieldPostImage, ve.Field)
	assert.Empty(t, store.Snapshot().PostImage, "selection is cleared, not truncated")
}

func TestImageSelect_RejectsNonImages(t *testing.T) {
	store := form.NewStore()
	u, _ := NewImageUploader(&fakeMedia{}, store, nil)

	err := u.Select([]form.File{form.MemFile{Filename: "a.png"}, form.MemFile{Filename: "notes.txt"}})
	assert.True(t, form.IsValidation(err))
	assert.Empty(t, store.Snapshot().PostImage)
}

func TestImageSelect_DoesNotUpload(t *testing.T) {
	media := &fakeMedia{}
	u, _ := NewImageUploader(media, form.NewStore(), nil)
	require.NoError(t, u.Select(images(3)))
	assert.Empty(t, media.calls)
}

func TestImageUpload_RequiresSelection(t *testing.T) {
	media := &fakeMedia{}
	u, _ := NewImageUploader(media, form.NewStore(), nil)
	_, err := u.ConfirmAndUpload(context.Background())
	assert.True(t, form.IsValidation(err))
	assert.Empty(t, media.calls)
}

func TestImageUpload_PreservesOrder(t *testing.T) {
	media := &fakeMedia{delays: map[string]time.Duration{
		"img1.png": 30 * time.Millisecond,
		"img2.png": 10 * time.Millisecond,
	}}
	store := form.NewStore()
	u, _ := NewImageUploader(media, store, nil)
	require.NoError(t, u.Select(images(3)))

	urls, err := u.ConfirmAndUpload(context.Background())
	require.NoError(t, err)
	want := []string{
		"https://cdn.example/img1.png",
		"https://cdn.example/img2.png",
		"https://cdn.example/img3.png",
	}
	assert.Equal(t, want, urls)
	assert.Equal(t, want, u.URLs())

	snap := store.Snapshot()
	assert.Equal(t, want, snap.ImageURLs)
	assert.Equal(t, want[0], snap.URL)
	assert.Empty(t, u.LastError())
	assert.False(t, u.Busy())
}

func TestImageUpload_OneFailureFailsBatch(t *testing.T) {
	media := &fakeMedia{fail: map[string]error{
		"img2.png": &remote.StatusError{StatusCode: 413, Detail: "file too large"},
	}}
	store := form.NewStore()
	store.Set(form.FieldImageURLs, []string{"https://cdn.example/stale.png"})
	u, _ := NewImageUploader(media, store, nil)
	require.NoError(t, u.Select(images(3)))

	urls, err := u.ConfirmAndUpload(context.Background())
	require.Error(t, err)
	assert.Nil(t, urls)
	assert.Equal(t, "failed to upload img2.png: file too large", err.Error())

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "img2.png", fe.Name)

	assert.Empty(t, store.Snapshot().ImageURLs)
	assert.Empty(t, u.URLs())
	assert.Equal(t, err.Error(), u.LastError())
	assert.Len(t, media.calls, 3, "siblings are not cancelled")
}

func TestImageUpload_NewSelectionResetsResult(t *testing.T) {
	u, _ := NewImageUploader(&fakeMedia{}, form.NewStore(), nil)
	require.NoError(t, u.Select(images(1)))
	_, err := u.ConfirmAndUpload(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, u.URLs())

	require.NoError(t, u.Select(images(2)))
	assert.Empty(t, u.URLs())
}

func TestImageUpload_BusyRejectsSecondCall(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	media := &blockingMedia{started: started, release: release}
	u, _ := NewImageUploader(media, form.NewStore(), nil)
	require.NoError(t, u.Select(images(1)))

	done := make(chan error, 1)
	go func() {
		_, err := u.ConfirmAndUpload(context.Background())
		done <- err
	}()
	<-started
	_, err := u.ConfirmAndUpload(context.Background())
	assert.ErrorIs(t, err, form.ErrBusy)
	close(release)
	require.NoError(t, <-done)
}

type blockingMedia struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingMedia) UploadImage(ctx context.Context, f form.File) (string, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return "https://cdn.example/" + f.Name(), nil
}

func TestVideoUpload(t *testing.T) {
	store := form.NewStore()
	u, err := NewVideoUploader(&fakeMedia{}, store, nil)
	require.NoError(t, err)

	_, err = u.ConfirmAndUpload(context.Background())
	assert.True(t, form.IsValidation(err))

	require.NoError(t, u.Select(form.MemFile{Filename: "clip.mp4"}))
	url, err := u.ConfirmAndUpload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/clip.mp4", url)
	assert.Equal(t, url, u.URL())
	snap := store.Snapshot()
	assert.Equal(t, url, snap.VideoURL)
	assert.Equal(t, url, snap.URL)
}

func TestVideoUpload_FailureClearsURLAndKeepsServiceMessage(t *testing.T) {
	media := &fakeMedia{fail: map[string]error{}}
	store := form.NewStore()
	u, _ := NewVideoUploader(media, store, nil)

	require.NoError(t, u.Select(form.MemFile{Filename: "clip.mp4"}))
	_, err := u.ConfirmAndUpload(context.Background())
	require.NoError(t, err)

	media.fail["clip.mp4"] = &remote.StatusError{StatusCode: 400, Detail: "Unsupported codec"}
	_, err = u.ConfirmAndUpload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported codec")
	assert.Empty(t, u.URL())
	assert.Empty(t, store.Snapshot().VideoURL)
	assert.Equal(t, err.Error(), u.LastError())
}

func TestVideoSelect_RejectsNonVideo(t *testing.T) {
	store := form.NewStore()
	u, _ := NewVideoUploader(&fakeMedia{}, store, nil)
	err := u.Select(form.MemFile{Filename: "photo.jpg"})
	assert.True(t, form.IsValidation(err))
	assert.Nil(t, store.Snapshot().PostVideo)
}

func TestMediaService_HTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload-image/", func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if hdr.Filename == "bad.png" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "not a real image"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn/" + hdr.Filename})
	})
	mux.HandleFunc("/upload-video", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("video"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	media, err := NewMediaService(remote.NewClient(srv.Client(), "", nil), MediaConfig{
		ImageURL: srv.URL + "/upload-image/",
		VideoURL: srv.URL + "/upload-video",
	})
	require.NoError(t, err)

	url, err := media.UploadImage(context.Background(), form.MemFile{Filename: "ok.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/ok.png", url)

	_, err = media.UploadImage(context.Background(), form.MemFile{Filename: "bad.png"})
	assert.Equal(t, "not a real image", ServiceDetail(err))

	_, err = media.UploadVideo(context.Background(), form.MemFile{Filename: "v.mp4"})
	assert.Equal(t, "video upload failed", ServiceDetail(err))
	assert.Equal(t, 500, remote.StatusCode(err))
}

func TestServiceDetail_NonStatus(t *testing.T) {
	assert.Equal(t, "boom", ServiceDetail(errors.New("boom")))
}
