// Package artifact inspects the files the MCQ service generates.
package artifact

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mcqMarker = "## MCQ"

var (
	questionField    = regexp.MustCompile(`(?i)^\s*(?:\*\*)?question\s*:`)
	numberedLine     = regexp.MustCompile(`^\s*(?:Q(?:uestion)?\s*)?\d+\s*[.):]`)
	// extracted PDF text does not always keep line breaks
	questionAnywhere = regexp.MustCompile(`(?i)question\s*:`)
)

// Summary describes a downloaded artifact.
type Summary struct {
	Pages     int // zero for text artifacts
	Questions int
}

// InspectPDF reads an in-memory PDF and counts its pages and questions.
func InspectPDF(data []byte) (s *Summary, err error) {
	defer func() {
		// the parser panics on some malformed inputs
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	summary := &Summary{Pages: reader.NumPage()}
	plain, err := reader.GetPlainText()
	if err != nil {
		return summary, nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return summary, nil
	}
	text := buf.String()
	summary.Questions = CountQuestions(text)
	if summary.Questions == 0 {
		summary.Questions = len(questionAnywhere.FindAllStringIndex(text, -1))
	}
	return summary, nil
}

// InspectText counts numbered questions in a text artifact.
func InspectText(data []byte) *Summary {
	return &Summary{Questions: CountQuestions(string(data))}
}

// CountQuestions counts the questions in a generated artifact. The MCQ
// service writes each question as a "## MCQ" block holding a "Question:" line;
// its PDF drops the markers but keeps the "Question:" lines. Text in neither
// shape is counted by numbered lines such as "1.", "2)" or "Q3:".
func CountQuestions(text string) int {
	if strings.Contains(text, mcqMarker) {
		n := 0
		for _, block := range strings.Split(text, mcqMarker) {
			if countLines(block, questionField) > 0 {
				n++
			}
		}
		return n
	}
	if n := countLines(text, questionField); n > 0 {
		return n
	}
	return countLines(text, numberedLine)
}

func countLines(text string, re *regexp.Regexp) int {
	n := 0
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if re.MatchString(sc.Text()) {
			n++
		}
	}
	return n
}

// Inspect dispatches on the file extension of name.
func Inspect(name string, data []byte) (*Summary, error) {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return InspectPDF(data)
	}
	return InspectText(data), nil
}
