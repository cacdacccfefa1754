package models

// IssuePayload is the composed issue handed to the tracker.
type IssuePayload struct {
	Title      string
	Body       string
	Labels     []string
	ProjectIDs []int
}

// SubmissionResult describes the issue created by a submission.
type SubmissionResult struct {
	ID     int64
	Number int
	Title  string
	URL    string
	Labels []string
	// ProjectWarnings lists project associations that failed after the issue
	// was created.
	ProjectWarnings []string
}
