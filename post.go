package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linkedin_post_automation/compose"
	"linkedin_post_automation/form"
	"linkedin_post_automation/publisher"
)

type postFlags struct {
	topic           string
	description     string
	tone            string
	audience        string
	intent          string
	wordLimit       int
	url             string
	visibility      string
	title           string
	postDescription string
	content         string
	images          []string
	video           string
	dryRun          bool
	show            bool
	plainText       bool
}

var postOpts postFlags

var postCmd = &cobra.Command{
	Use:   "post <text|url|image|video>",
	Short: "Generate and publish a post without the web composer",
	Long: `post runs the composer flow for one content type: media uploads first,
then content generation (skipped when --content is given), then publishing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ct, err := form.ParseContentType(args[0])
		if err != nil {
			return err
		}
		deps, err := buildDeps(cfg, logger)
		if err != nil {
			return err
		}
		ws, err := compose.NewWorkspace(deps)
		if err != nil {
			return err
		}
		timeout, _ := cfg.RequestTimeout()
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*timeout)
		defer cancel()
		opts := postOpts
		opts.plainText = cfg.Publish.PlainText
		return runPost(ctx, ws, ct, opts, cmd.Flags().Changed, cmd.OutOrStdout())
	},
}

// runPost drives ws through one post. changed reports whether a flag was
// given explicitly.
func runPost(ctx context.Context, ws *compose.Workspace, ct form.ContentType, o postFlags, changed func(string) bool, out io.Writer) error {
	set := func(flag, field string, v any) {
		if changed(flag) {
			ws.ApplyField(ct, form.Change{Field: field, Value: v})
		}
	}
	set("topic", form.FieldTopic, o.topic)
	set("description", form.FieldDescription, o.description)
	set("audience", form.FieldAudience, o.audience)
	// These carry usable defaults.
	ws.ApplyField(ct, form.Change{Field: form.FieldTone, Value: o.tone})
	ws.ApplyField(ct, form.Change{Field: form.FieldIntent, Value: o.intent})
	ws.ApplyField(ct, form.Change{Field: form.FieldWordLimit, Value: o.wordLimit})
	set("visibility", form.FieldPostVisibility, o.visibility)
	set("title", form.FieldPostTitle, o.title)
	set("post-description", form.FieldPostDescription, o.postDescription)
	if changed("url") {
		ws.ApplyField(ct, form.Change{Field: form.FieldPostURL, Value: o.url})
		ws.ApplyField(ct, form.Change{Field: form.FieldURL, Value: o.url})
	}

	switch ct {
	case form.ContentImage:
		if len(o.images) == 0 {
			return errors.New("--image is required for image posts")
		}
		files := make([]form.File, len(o.images))
		for i, p := range o.images {
			files[i] = form.LocalFile{Path: p}
		}
		if err := ws.Images.Select(files); err != nil {
			return err
		}
		urls, err := ws.Images.ConfirmAndUpload(ctx)
		if err != nil {
			return err
		}
		logger.Info(compose.MsgImagesUploaded, zap.Strings("urls", urls))
	case form.ContentVideo:
		if o.video == "" {
			return errors.New("--video is required for video posts")
		}
		if err := ws.Video.Select(form.LocalFile{Path: o.video}); err != nil {
			return err
		}
		url, err := ws.Video.ConfirmAndUpload(ctx)
		if err != nil {
			return err
		}
		logger.Info(compose.MsgVideoUploaded, zap.String("url", url))
	}

	if changed("content") {
		ws.ApplyField(ct, form.Change{Field: form.FieldPostContent, Value: o.content})
	} else {
		content, err := ws.Generate(ctx, ct)
		if err != nil {
			return err
		}
		logger.Info(compose.MsgGenerated, zap.Int("chars", len(content)))
	}

	if o.show {
		if err := renderContent(out, ws.Store.String(form.FieldPostContent)); err != nil {
			return err
		}
	}

	if o.dryRun {
		page, _ := compose.PageFor(ct)
		snap := ws.Store.Snapshot()
		if err := page.Validate(snap); err != nil {
			return err
		}
		payload, err := publisher.BuildPayload(page.Post(snap), o.plainText)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if err := ws.Submit(ctx, ct); err != nil {
		return err
	}
	fmt.Fprintln(out, compose.MsgPublished)
	return nil
}

// renderContent prints the post text as styled terminal markdown.
func renderContent(w io.Writer, content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	rendered, err := r.Render(content)
	if err != nil {
		return fmt.Errorf("render content: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func init() {
	f := postCmd.Flags()
	f.StringVar(&postOpts.topic, "topic", "", "post topic")
	f.StringVar(&postOpts.description, "description", "", "what the post should say")
	f.StringVar(&postOpts.tone, "tone", "professional", "tone: professional, casual, friendly, formal or humorous")
	f.StringVar(&postOpts.audience, "audience", "", "target audience")
	f.StringVar(&postOpts.intent, "intent", "inform", "intent: inform, entertain, persuade, educate or inspire")
	f.IntVar(&postOpts.wordLimit, "word-limit", 150, "maximum words, 1-400")
	f.StringVar(&postOpts.url, "url", "", "link to share (url posts)")
	f.StringVar(&postOpts.visibility, "visibility", "", "PUBLIC or CONNECTIONS")
	f.StringVar(&postOpts.title, "title", "", "video title")
	f.StringVar(&postOpts.postDescription, "post-description", "", "video description")
	f.StringVar(&postOpts.content, "content", "", "post text; skips generation")
	f.StringArrayVar(&postOpts.images, "image", nil, "image file to attach (repeatable, up to 6)")
	f.StringVar(&postOpts.video, "video", "", "video file to attach")
	f.BoolVar(&postOpts.dryRun, "dry-run", false, "print the publish payload instead of posting")
	f.BoolVar(&postOpts.show, "show", false, "print the post content before publishing")
	_ = postCmd.MarkFlagRequired("visibility")
}
