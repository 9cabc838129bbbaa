package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"mcq-portal/internal/artifact"
	"mcq-portal/internal/domain"

	"github.com/spf13/cobra"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		file      string
		questions string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Upload a document and generate MCQs from it",
		Long: `Upload a document, generate MCQs from it and print both download links.

With --out the text and PDF artifacts are downloaded into the directory and
summarized.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			if err := s.upload(cmd, file); err != nil {
				return err
			}
			result, err := s.generate(cmd, questions)
			if err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			return s.download(cmd, out, result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Document to upload (pdf, txt or docx)")
	cmd.Flags().StringVarP(&questions, "questions", "n", "", "Number of questions to generate")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Directory to download the generated files into")
	_ = cmd.MarkFlagRequired("questions")
	return cmd
}

func uploadCmd(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a document and print the path the service stored it under",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			return s.upload(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Document to upload (pdf, txt or docx)")
	return cmd
}

func generateCmd(flags *globalFlags) *cobra.Command {
	var (
		filePath  string
		questions string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate MCQs from a document the service already holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			if _, err := s.ctrl.RestoreUpload(cmd.Context(), s.id, "", filePath); err != nil {
				return err
			}
			_, err = s.generate(cmd, questions)
			return err
		},
	}

	cmd.Flags().StringVarP(&filePath, "path", "p", "", "Server path returned by a previous upload")
	cmd.Flags().StringVarP(&questions, "questions", "n", "", "Number of questions to generate")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("questions")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "mcqctl %s (commit %s)\n", version, commit)
			fmt.Fprintf(w, "Go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func (s *session) upload(cmd *cobra.Command, name string) error {
	var selection *domain.FileSelection
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return domain.NewValidationError(fmt.Sprintf("Cannot read %s", name), err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return domain.NewValidationError(fmt.Sprintf("Cannot read %s", name), err)
		}
		selection = &domain.FileSelection{Name: filepath.Base(name), Size: info.Size(), Content: f}
	}

	uploaded, err := s.ctrl.Upload(cmd.Context(), s.id, selection)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if uploaded.Notice != nil {
		fmt.Fprintln(w, uploaded.Notice.Message)
	}
	fmt.Fprintf(w, "file_path: %s\n", uploaded.FilePath)
	return nil
}

func (s *session) generate(cmd *cobra.Command, questions string) (*domain.GenerationResult, error) {
	result, err := s.ctrl.Generate(cmd.Context(), s.id, questions)
	if err != nil {
		return nil, err
	}
	view, err := s.ctrl.View(cmd.Context(), s.id, true)
	if err != nil {
		return nil, err
	}

	w := cmd.OutOrStdout()
	if view.Notice != nil {
		fmt.Fprintln(w, view.Notice.Message)
	}
	fmt.Fprintf(w, "text: %s\n", result.TextFileURL)
	fmt.Fprintf(w, "pdf:  %s\n", result.PDFFileURL)
	return result, nil
}

func (s *session) download(cmd *cobra.Command, dir string, result *domain.GenerationResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, link := range []string{result.TextFileURL, result.PDFFileURL} {
		dest := filepath.Join(dir, path.Base(link))
		data, err := s.fetch(cmd, link, dest)
		if err != nil {
			return err
		}

		summary, err := artifact.Inspect(dest, data)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (unreadable: %v)\n", dest, err)
			continue
		}
		if summary.Pages > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d pages, %d questions)\n", dest, summary.Pages, summary.Questions)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d questions)\n", dest, summary.Questions)
		}
	}
	return nil
}

// fetch downloads link into dest and returns the bytes written.
func (s *session) fetch(cmd *cobra.Command, link, dest string) ([]byte, error) {
	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := s.client.Download(cmd.Context(), link, f); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
