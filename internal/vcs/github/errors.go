package github

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/go-github/v80/github"
)

// SubmissionError is a failed issue creation. StatusCode and Body are the
// tracker's response as received; Err is the classified domain error.
type SubmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("issue submission failed: %v", e.Err)
	}
	return fmt.Sprintf("issue submission failed with status %d: %v", e.StatusCode, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func newSubmissionError(resp *github.Response, err error, repository string) *SubmissionError {
	subErr := &SubmissionError{}
	if resp != nil && resp.Response != nil {
		subErr.StatusCode = resp.StatusCode
		subErr.Body = readBody(resp)
	}
	if subErr.Body == "" {
		subErr.Body = errorBody(err)
	}
	subErr.Err = classify(subErr.StatusCode, err, repository)
	return subErr
}

// readBody returns the raw response body. go-github leaves the body of
// error responses readable after decoding it.
func readBody(resp *github.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return string(bytes.TrimSpace(data))
}

func errorBody(err error) string {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		data, mErr := json.Marshal(struct {
			Message          string         `json:"message"`
			Errors           []github.Error `json:"errors,omitempty"`
			DocumentationURL string         `json:"documentation_url,omitempty"`
		}{ghErr.Message, ghErr.Errors, ghErr.DocumentationURL})
		if mErr == nil {
			return string(data)
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
