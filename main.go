package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linkedin_post_automation/compose"
	"linkedin_post_automation/config"
	"linkedin_post_automation/generator"
	"linkedin_post_automation/linkpreview"
	"linkedin_post_automation/logging"
	"linkedin_post_automation/publisher"
	"linkedin_post_automation/remote"
	"linkedin_post_automation/server"
	"linkedin_post_automation/uploader"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "linkedin-post",
	Short: "Compose, illustrate and publish LinkedIn posts",
	Long: `linkedin-post drafts LinkedIn posts with an AI generation service,
uploads their images or video and publishes them.

Run "linkedin-post serve" for the web composer or "linkedin-post post <type>"
to publish from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init writes the defaults and must work without a valid config.
		if cmd.Name() == "init" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Log.Format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web composer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cfg, logger)
		if err != nil {
			return err
		}
		timeout, _ := cfg.RequestTimeout()
		srv, err := server.New(deps, server.Options{
			Timeout:        timeout,
			MaxUploadBytes: int64(cfg.Upload.MaxUploadMB) << 20,
		})
		if err != nil {
			return err
		}

		listen := cfg.ServerAddr
		if serveAddr != "" {
			listen = serveAddr
		}
		httpSrv := &http.Server{
			Addr:              listen,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting web server", zap.String("addr", listen))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

// buildDeps wires the remote services shared by every workspace.
func buildDeps(cfg config.Config, logger *zap.Logger) (compose.Deps, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return compose.Deps{}, err
	}
	httpClient := &http.Client{Timeout: timeout}
	client := remote.NewClient(httpClient, cfg.Services.APIKey, logger.Named("remote"))

	gen, err := buildGeneration(cfg, client)
	if err != nil {
		return compose.Deps{}, err
	}
	media, err := uploader.NewMediaService(client, uploader.MediaConfig{
		ImageURL:   cfg.Services.UploadImageURL,
		ImageField: cfg.Upload.ImageField,
		VideoURL:   cfg.Services.UploadVideoURL,
		VideoField: cfg.Upload.VideoField,
	})
	if err != nil {
		return compose.Deps{}, err
	}
	pub, err := publisher.New(client, publisher.EndpointsFromBase(cfg.Services.PublishBaseURL),
		cfg.Publish.PlainText, logger.Named("publisher"))
	if err != nil {
		return compose.Deps{}, err
	}
	return compose.Deps{
		Generation: gen,
		Media:      media,
		Publisher:  pub,
		Previewer:  linkpreview.NewFetcher(httpClient, logger.Named("linkpreview")),
		Logger:     logger,
	}, nil
}

func buildGeneration(cfg config.Config, client *remote.Client) (generator.Service, error) {
	switch cfg.Generator.Backend {
	case "remote":
		return generator.NewRemoteService(client, cfg.Services.GenerateURL)
	case "mock":
		return generator.NewLLMService(generator.MockLLM{})
	case "openai", "deepseek":
		llm, err := generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.Generator.Backend,
			Model:    cfg.Generator.LLM.Model,
			APIKey:   cfg.Generator.LLM.APIKey,
			BaseURL:  cfg.Generator.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return generator.NewLLMService(llm)
	default:
		return nil, fmt.Errorf("generator backend %s not supported", cfg.Generator.Backend)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server_addr)")

	rootCmd.AddCommand(serveCmd, postCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
