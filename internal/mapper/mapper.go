// Package mapper converts provider webhook payloads into intake handler input.
package mapper

import (
	"fmt"
	"regexp"
)

// GithubRepository is the repository block every GitHub webhook carries.
type GithubRepository struct {
	FullName string `json:"full_name"`
}

// GithubPullRequestEvent is the payload of "pull_request" webhooks.
type GithubPullRequestEvent struct {
	Action      string           `json:"action"`
	Repository  GithubRepository `json:"repository"`
	PullRequest struct {
		Number    int  `json:"number"`
		Merged    bool `json:"merged"`
		Additions int  `json:"additions"`
		Deletions int  `json:"deletions"`
	} `json:"pull_request"`
}

// GithubReviewEvent is the payload of "pull_request_review" webhooks.
type GithubReviewEvent struct {
	Action     string           `json:"action"`
	Repository GithubRepository `json:"repository"`
	Review     struct {
		State string `json:"state"`
	} `json:"review"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

// GithubCheckRunEvent is the payload of "check_run" webhooks.
type GithubCheckRunEvent struct {
	Action     string           `json:"action"`
	Repository GithubRepository `json:"repository"`
	CheckRun   struct {
		HeadSHA      string `json:"head_sha"`
		PullRequests []struct {
			Number int `json:"number"`
		} `json:"pull_requests"`
	} `json:"check_run"`
}

// GithubStatusEvent is the payload of "status" webhooks. It identifies the
// commit, not the PR; the PR is resolved through the VCS query API.
type GithubStatusEvent struct {
	SHA        string           `json:"sha"`
	Repository GithubRepository `json:"repository"`
}

// SlackEventCallback is the envelope of the Slack Events API.
type SlackEventCallback struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	EventID   string `json:"event_id"`
	Event     struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
		TS      string `json:"ts"`
		Text    string `json:"text"`
	} `json:"event"`
}

// PRIdentifierFrom builds the "owner/repository/number" key used across the
// domain.
func PRIdentifierFrom(repositoryFullName string, number int) string {
	return fmt.Sprintf("%s/%d", repositoryFullName, number)
}

// MessageIdentifierFrom encodes a Slack message as "channel@timestamp".
func MessageIdentifierFrom(channel, ts string) string {
	return channel + "@" + ts
}

var prURLPattern = regexp.MustCompile(`github\.com/([\w.-]+)/([\w.-]+)/pull/(\d+)`)

// PRReferenceFromText extracts the repository and PR number from the first
// GitHub PR link found in a chat message.
func PRReferenceFromText(text string) (repository string, number string, ok bool) {
	m := prURLPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1] + "/" + m[2], m[3], true
}
