// Package mcqapitest provides an in-process fake of the MCQ service for tests.
package mcqapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"sync/atomic"
)

// Reply is a canned response: Status plus a JSON-encoded Body (or RawBody
// when set).
type Reply struct {
	Status  int
	Body    interface{}
	RawBody string
}

// Upload is what the fake saw on POST /upload.
type Upload struct {
	FileName string
	Content  []byte
}

// Server records calls and answers with the configured replies. The zero
// configuration accepts every upload and generation.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	uploadReply   *Reply
	generateReply *Reply
	artifacts     map[string][]byte
	uploads       []Upload
	generations   []map[string]interface{}
	gate          chan struct{}

	UploadCalls   atomic.Int32
	GenerateCalls atomic.Int32
}

func NewServer() *Server {
	s := &Server{artifacts: make(map[string][]byte)}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/generate_mcqs", s.handleGenerate)
	mux.HandleFunc("/", s.handleArtifact)
	s.Server = httptest.NewServer(mux)
	return s
}

// ReplyUpload overrides the response to POST /upload.
func (s *Server) ReplyUpload(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadReply = &r
}

// ReplyGenerate overrides the response to POST /generate_mcqs.
func (s *Server) ReplyGenerate(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generateReply = &r
}

// HoldGenerate makes generation requests block until the returned function
// is called.
func (s *Server) HoldGenerate() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// PutArtifact serves content at GET /<p>.
func (s *Server) PutArtifact(p string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[path.Clean("/"+p)] = content
}

func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) Generations() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.generations...)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.UploadCalls.Add(1)
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeReply(w, Reply{Status: http.StatusBadRequest, Body: map[string]string{"error": "No file part"}})
		return
	}
	defer file.Close()
	content, _ := io.ReadAll(file)

	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{FileName: header.Filename, Content: content})
	reply := s.uploadReply
	s.mu.Unlock()

	if reply == nil {
		reply = &Reply{Status: http.StatusOK, Body: map[string]string{
			"message":   "File uploaded successfully",
			"file_path": "uploads/" + header.Filename,
		}}
	}
	writeReply(w, *reply)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.GenerateCalls.Add(1)
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeReply(w, Reply{Status: http.StatusBadRequest, Body: map[string]string{"error": "Invalid JSON"}})
		return
	}

	s.mu.Lock()
	s.generations = append(s.generations, body)
	reply := s.generateReply
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if reply == nil {
		base := "doc"
		if fp, ok := body["file_path"].(string); ok && fp != "" {
			base = path.Base(fp)
		}
		reply = &Reply{Status: http.StatusOK, Body: map[string]string{
			"message":   "MCQs generated successfully",
			"text_file": "results/mcqs_" + base + ".txt",
			"pdf_file":  "results/mcqs_" + base + ".pdf",
		}}
	}
	writeReply(w, *reply)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	content, ok := s.artifacts[path.Clean(r.URL.Path)]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(content)
}

func writeReply(w http.ResponseWriter, r Reply) {
	w.Header().Set("Content-Type", "application/json")
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if r.RawBody != "" {
		_, _ = io.WriteString(w, r.RawBody)
		return
	}
	if r.Body != nil {
		_ = json.NewEncoder(w).Encode(r.Body)
	}
}
