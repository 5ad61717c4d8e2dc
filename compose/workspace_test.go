package compose

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin_post_automation/form"
	"linkedin_post_automation/generator"
	"linkedin_post_automation/linkpreview"
	"linkedin_post_automation/publisher"
	"linkedin_post_automation/remote"
)

type stubGeneration struct{ post string }

func (s stubGeneration) Generate(context.Context, generator.Request) (generator.Response, error) {
	p := s.post
	return generator.Response{Post: &p}, nil
}

type stubMedia struct{}

func (stubMedia) UploadImage(_ context.Context, f form.File) (string, error) {
	return "https://cdn.example/" + f.Name(), nil
}

func (stubMedia) UploadVideo(_ context.Context, f form.File) (string, error) {
	return "https://cdn.example/" + f.Name(), nil
}

type recordingPoster struct {
	posts []publisher.Post
	err   error
}

func (r *recordingPoster) Publish(_ context.Context, p publisher.Post) error {
	r.posts = append(r.posts, p)
	return r.err
}

type stubPreviewer struct {
	preview *linkpreview.Preview
	err     error
}

func (s stubPreviewer) Fetch(context.Context, string) (*linkpreview.Preview, error) {
	return s.preview, s.err
}

func newWorkspace(t *testing.T, poster Poster) *Workspace {
	t.Helper()
	w, err := NewWorkspace(Deps{
		Generation: stubGeneration{post: "```json\n{\"content\":\"Generated post\"}\n```"},
		Media:      stubMedia{},
		Publisher:  poster,
		Previewer:  stubPreviewer{preview: &linkpreview.Preview{Title: "Page title", Description: "Page description"}},
	})
	require.NoError(t, err)
	return w
}

func fillGeneration(w *Workspace, ct form.ContentType) {
	for field, v := range map[string]any{
		form.FieldTopic:       "Remote work",
		form.FieldDescription: "Lessons learned",
		form.FieldTone:        "casual",
		form.FieldAudience:    "Managers",
		form.FieldIntent:      "educate",
		form.FieldWordLimit:   "120",
	} {
		w.ApplyField(ct, form.Change{Field: field, Value: v})
	}
}

func TestSubmit_TextWithoutVisibilityIsBlocked(t *testing.T) {
	poster := &recordingPoster{}
	w := newWorkspace(t, poster)
	w.ApplyField(form.ContentText, form.Change{Field: form.FieldPostContent, Value: "Hello"})

	err := w.Submit(context.Background(), form.ContentText)
	var ve *form.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, form.FieldPostVisibility, ve.Field)
	assert.Empty(t, poster.posts, "no network call")
}

func TestSubmit_TextFlow(t *testing.T) {
	poster := &recordingPoster{}
	w := newWorkspace(t, poster)
	fillGeneration(w, form.ContentText)

	content, err := w.Generate(context.Background(), form.ContentText)
	require.NoError(t, err)
	assert.Equal(t, "Generated post", content)

	w.ApplyField(form.ContentText, form.Change{Field: form.FieldPostVisibility, Value: "PUBLIC"})
	require.NoError(t, w.Submit(context.Background(), form.ContentText))
	require.Len(t, poster.posts, 1)
	assert.Equal(t, publisher.Post{Type: form.ContentText, Content: "Generated post", Visibility: "PUBLIC"}, poster.posts[0])
}

func TestSubmit_URLChecksEachField(t *testing.T) {
	poster := &recordingPoster{}
	w := newWorkspace(t, poster)

	steps := []struct {
		missing string
		fix     form.Change
	}{
		{form.FieldPostContent, form.Change{Field: form.FieldPostContent, Value: "Read this"}},
		{form.FieldPostURL, form.Change{Field: form.FieldPostURL, Value: "https://go.dev/blog"}},
		{form.FieldPostTitle, form.Change{Field: form.FieldTopic, Value: "Go blog"}},
		{form.FieldPostVisibility, form.Change{Field: form.FieldPostVisibility, Value: "CONNECTIONS"}},
	}
	for _, step := range steps {
		err := w.Submit(context.Background(), form.ContentURL)
		var ve *form.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, step.missing, ve.Field)
		w.ApplyField(form.ContentURL, step.fix)
	}
	assert.Empty(t, poster.posts)

	require.NoError(t, w.Submit(context.Background(), form.ContentURL))
	require.Len(t, poster.posts, 1)
	assert.Equal(t, "https://go.dev/blog", poster.posts[0].URL)
	assert.Equal(t, "Go blog", poster.posts[0].Title)
	assert.Equal(t, "CONNECTIONS", poster.posts[0].Visibility)
}

func TestApplyField_PostURLMirrorsIntoURL(t *testing.T) {
	w := newWorkspace(t, &recordingPoster{})
	w.ApplyField(form.ContentURL, form.Change{Field: form.FieldPostURL, Value: "https://a.example"})
	assert.Equal(t, "https://a.example", w.Store.Snapshot().URL)

	w.ApplyField(form.ContentText, form.Change{Field: form.FieldPostURL, Value: "https://b.example"})
	assert.Equal(t, "https://a.example", w.Store.Snapshot().URL)
}

func TestSubmit_ImageFlow(t *testing.T) {
	poster := &recordingPoster{}
	w := newWorkspace(t, poster)
	w.ApplyField(form.ContentImage, form.Change{Field: form.FieldPostContent, Value: "Photos"})
	w.ApplyField(form.ContentImage, form.Change{Field: form.FieldPostVisibility, Value: "PUBLIC"})

	err := w.Submit(context.Background(), form.ContentImage)
	var ve *form.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, form.FieldImageURLs, ve.Field)

	require.NoError(t, w.Images.Select([]form.File{form.MemFile{Filename: "a.png"}, form.MemFile{Filename: "b.jpg"}}))
	_, err = w.Images.ConfirmAndUpload(context.Background())
	require.NoError(t, err)

	require.NoError(t, w.Submit(context.Background(), form.ContentImage))
	assert.Equal(t, []string{"https://cdn.example/a.png", "https://cdn.example/b.jpg"}, poster.posts[0].Images)
}

func TestSubmit_VideoFlow(t *testing.T) {
	poster := &recordingPoster{}
	w := newWorkspace(t, poster)
	w.ApplyField(form.ContentVideo, form.Change{Field: form.FieldPostContent, Value: "Watch"})
	w.ApplyField(form.ContentVideo, form.Change{Field: form.FieldPostVisibility, Value: "PUBLIC"})
	w.ApplyField(form.ContentVideo, form.Change{Field: form.FieldPostTitle, Value: "Demo"})

	err := w.Submit(context.Background(), form.ContentVideo)
	var ve *form.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, form.FieldVideoURL, ve.Field)

	require.NoError(t, w.Video.Select(form.MemFile{Filename: "demo.mp4"}))
	_, err = w.Video.ConfirmAndUpload(context.Background())
	require.NoError(t, err)

	require.NoError(t, w.Submit(context.Background(), form.ContentVideo))
	assert.Equal(t, "https://cdn.example/demo.mp4", poster.posts[0].Video)
	assert.Equal(t, "Demo", poster.posts[0].Title)
}

func TestSubmit_InvalidVisibility(t *testing.T) {
	w := newWorkspace(t, &recordingPoster{})
	w.ApplyField(form.ContentText, form.Change{Field: form.FieldPostContent, Value: "x"})
	w.ApplyField(form.ContentText, form.Change{Field: form.FieldPostVisibility, Value: "EVERYONE"})
	assert.True(t, form.IsValidation(w.Submit(context.Background(), form.ContentText)))
}

func TestSubmit_Messages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		ok     bool
		want   []string
	}{
		{"success", http.StatusOK, `{}`, true, []string{MsgPublished}},
		{"server error", http.StatusInternalServerError, `{"detail":"token expired"}`, false, []string{"500", "token expired"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			pub, err := publisher.New(remote.NewClient(srv.Client(), "", nil), publisher.EndpointsFromBase(srv.URL), false, nil)
			require.NoError(t, err)
			w := newWorkspace(t, pub)
			w.ApplyField(form.ContentText, form.Change{Field: form.FieldPostContent, Value: "x"})
			w.ApplyField(form.ContentText, form.Change{Field: form.FieldPostVisibility, Value: "PUBLIC"})

			res := Outcome(MsgPublished, w.Submit(context.Background(), form.ContentText))
			assert.Equal(t, tc.ok, res.OK)
			for _, s := range tc.want {
				assert.Contains(t, res.Message, s)
			}
		})
	}
}

func TestPreview_PrefillsEmptyFields(t *testing.T) {
	w := newWorkspace(t, &recordingPoster{})
	_, err := w.Preview(context.Background())
	assert.True(t, form.IsValidation(err))

	w.ApplyField(form.ContentURL, form.Change{Field: form.FieldPostURL, Value: "https://go.dev"})
	w.ApplyField(form.ContentURL, form.Change{Field: form.FieldTopic, Value: "Mine"})
	p, err := w.Preview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Page title", p.Title)

	snap := w.Store.Snapshot()
	assert.Equal(t, "Mine", snap.Topic)
	assert.Equal(t, "Page description", snap.Description)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, Result{OK: true, Message: "Done!"}, Outcome("Done!", nil))

	r := Outcome("", form.Invalid(form.FieldTopic, "topic is required"))
	assert.Equal(t, "Topic is required.", r.Message)
	assert.Equal(t, form.FieldTopic, r.Field)

	assert.Equal(t, "Boom!", Outcome("", errors.New("boom!")).Message)
}
