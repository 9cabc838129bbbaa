package dto

import (
	"encoding/json"
	"strings"
)

// UploadResponse is the MCQ service's reply to POST /upload.
type UploadResponse struct {
	Message  string `json:"message,omitempty"`
	FilePath string `json:"file_path"`
}

// GenerateRequest is the body sent to POST /generate_mcqs.
type GenerateRequest struct {
	FilePath     string `json:"file_path"`
	NumQuestions int    `json:"num_questions"`
}

// GenerateResponse is the MCQ service's reply to POST /generate_mcqs. Both
// paths are relative to the service root.
type GenerateResponse struct {
	Message  string `json:"message,omitempty"`
	TextFile string `json:"text_file"`
	PDFFile  string `json:"pdf_file"`
}

// ServiceError is the failure body of any MCQ service endpoint.
type ServiceError struct {
	Error string `json:"error"`
}

// SessionGenerateRequest is the body of POST /api/session/generate.
// num_questions is taken verbatim so "5", 5 and "abc" all reach validation.
// @Description Request body for generating MCQs
type SessionGenerateRequest struct {
	NumQuestions json.RawMessage `json:"num_questions" swaggertype:"string" example:"5"`
}

// RawNumQuestions returns num_questions as the user typed it.
func (r SessionGenerateRequest) RawNumQuestions() string {
	raw := strings.TrimSpace(string(r.NumQuestions))
	if raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.NumQuestions, &s); err == nil {
		return s
	}
	return raw
}

// SessionUploadResponse is returned by POST /api/session/upload.
// @Description Upload result
type SessionUploadResponse struct {
	Message  string `json:"message"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
}

// SessionGenerateResponse is returned by POST /api/session/generate.
// @Description Generation result with root-prefixed download links
type SessionGenerateResponse struct {
	Message      string `json:"message"`
	TextFile     string `json:"text_file"`
	PDFFile      string `json:"pdf_file"`
	NumQuestions int    `json:"num_questions"`
	Stale        bool   `json:"stale,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status       string `json:"status"`
	SessionStore string `json:"session_store"`
}
