package ghwebhook

// Subset of the github webhook payload shapes that is read during
// normalization.
// Timestamps are kept as strings, they are stored as delivered and never
// parsed.

type pushPayload struct {
	Ref        string      `json:"ref"`
	Pusher     *account    `json:"pusher"`
	HeadCommit *headCommit `json:"head_commit"`
}

type account struct {
	// Name is set for the pusher object of push events.
	Name string `json:"name"`
	// Login is set for user and merged_by objects of pull_request events.
	Login string `json:"login"`
}

type headCommit struct {
	Timestamp string `json:"timestamp"`
}

type pullRequestPayload struct {
	PullRequest *pullRequest `json:"pull_request"`
}

type pullRequest struct {
	Merged    bool       `json:"merged"`
	User      *account   `json:"user"`
	MergedBy  *account   `json:"merged_by"`
	Head      *branchRef `json:"head"`
	Base      *branchRef `json:"base"`
	CreatedAt string     `json:"created_at"`
	MergedAt  string     `json:"merged_at"`
}

type branchRef struct {
	Ref string `json:"ref"`
}
