package domain

import (
	"io"
	"time"
)

// NoticeKind distinguishes success notices from failures.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a message the user must see once, after the action that produced it.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// FileSelection is the local file the user picked for upload.
type FileSelection struct {
	Name    string
	Size    int64
	Content io.Reader
}

// UploadSession links a user-chosen file to the path the MCQ service stored it
// under. FilePath stays empty until an upload succeeds.
type UploadSession struct {
	ID             string            `json:"id"`
	FileName       string            `json:"file_name,omitempty"`
	FilePath       string            `json:"file_path,omitempty"`
	UploadRevision int64             `json:"upload_revision"`
	Result         *GenerationResult `json:"result,omitempty"`
	Notice         *Notice           `json:"notice,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// HasUpload reports whether generation may be requested for this session.
func (s *UploadSession) HasUpload() bool {
	return s != nil && s.FilePath != ""
}

// Clone returns a deep copy so stores never share pointers with callers.
func (s *UploadSession) Clone() *UploadSession {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Result != nil {
		r := *s.Result
		cp.Result = &r
	}
	if s.Notice != nil {
		n := *s.Notice
		cp.Notice = &n
	}
	return &cp
}

// View derives what the page shows for this session.
func (s *UploadSession) View() *SessionView {
	v := &SessionView{
		SessionID:         s.ID,
		FileName:          s.FileName,
		FilePath:          s.FilePath,
		MCQSectionVisible: s.HasUpload(),
		GenerateEnabled:   s.HasUpload(),
		ResultsVisible:    s.Result != nil,
	}
	if s.Result != nil {
		v.DownloadTextURL = s.Result.TextFileURL
		v.DownloadPDFURL = s.Result.PDFFileURL
		v.NumQuestions = s.Result.NumQuestions
	}
	if s.Notice != nil {
		n := *s.Notice
		v.Notice = &n
	}
	return v
}

// GenerationRequest asks the MCQ service for NumQuestions questions drawn from
// the document stored at FilePath.
type GenerationRequest struct {
	FilePath     string `json:"file_path"`
	NumQuestions int    `json:"num_questions"`
}

// GeneratedArtifacts are the server-relative paths returned by a generation.
type GeneratedArtifacts struct {
	TextFile string
	PDFFile  string
}

// GenerationResult holds root-prefixed download links for one generation.
// Stale is set when a newer upload replaced SourcePath while the request was
// in flight; stale results are returned but never stored on the session.
type GenerationResult struct {
	TextFileURL  string    `json:"text_file_url"`
	PDFFileURL   string    `json:"pdf_file_url"`
	SourcePath   string    `json:"source_path"`
	NumQuestions int       `json:"num_questions"`
	GeneratedAt  time.Time `json:"generated_at"`
	Stale        bool      `json:"stale,omitempty"`
}

// SessionView is the display state of the upload/generate page.
type SessionView struct {
	SessionID         string  `json:"session_id"`
	FileName          string  `json:"file_name,omitempty"`
	FilePath          string  `json:"file_path,omitempty"`
	MCQSectionVisible bool    `json:"mcq_section_visible"`
	GenerateEnabled   bool    `json:"generate_enabled"`
	ResultsVisible    bool    `json:"results_visible"`
	NumQuestions      int     `json:"num_questions,omitempty"`
	DownloadTextURL   string  `json:"download_text_url,omitempty"`
	DownloadPDFURL    string  `json:"download_pdf_url,omitempty"`
	Notice            *Notice `json:"notice,omitempty"`
}
