package main

import (
	"fmt"
	"time"

	"mcq-portal/internal/adapter"
	"mcq-portal/internal/adapter/mcqapi"
	"mcq-portal/internal/config"
	"mcq-portal/internal/logger"
	"mcq-portal/internal/service"
	"mcq-portal/internal/validation"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	baseURL string
	timeout time.Duration
	verbose bool
}

// session is a single-use upload session backed by an in-memory store.
type session struct {
	id     string
	ctrl   *service.Controller
	client *mcqapi.Client
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "mcqctl",
		Short: "Upload documents and generate MCQs from the command line",
		Long: `mcqctl talks to the MCQ service directly.

Examples:
  mcqctl run --file notes.pdf --questions 10 --out ./out
  mcqctl upload --file notes.pdf
  mcqctl generate --path uploads/notes.pdf --questions 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "MCQ service base URL (default from config.yaml or MCQ_BASE_URL)")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "Request timeout (default from config)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log requests to stdout")

	root.AddCommand(
		runCmd(&flags),
		uploadCmd(&flags),
		generateCmd(&flags),
		versionCmd(),
	)
	return root
}

// open builds a controller from config.yaml, environment and flags, and
// opens a fresh session on it.
func (f *globalFlags) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if f.baseURL != "" {
		cfg.MCQ.BaseURL = f.baseURL
	}
	if f.timeout > 0 {
		cfg.MCQ.Timeout = f.timeout
	}
	if f.verbose {
		cfg.Logger.Level = "debug"
		if err := logger.Initialize(cfg.Logger); err != nil {
			return nil, err
		}
	}

	client, err := mcqapi.NewClient(cfg.MCQ.BaseURL, cfg.MCQ.Timeout, logger.Get().Named("mcqapi"))
	if err != nil {
		return nil, err
	}
	ctrl := service.NewController(client, adapter.NewMemorySessionStore(0), validation.NewValidator(validation.Rules{
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxUploadBytes:    cfg.Upload.MaxBytes,
		MaxQuestions:      cfg.Generation.MaxQuestions,
	}))

	s, err := ctrl.Open(cmd.Context(), "")
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &session{id: s.ID, ctrl: ctrl, client: client}, nil
}
