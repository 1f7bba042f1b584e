// Package github queries the VCS provider for the CI state of a commit.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PierrickMartos/slub/config"
	"github.com/PierrickMartos/slub/internal/entities"

	"go.uber.org/zap"
)

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client fetches commit statuses and check runs through the GitHub REST API,
// authenticated as a GitHub App installation.
type Client struct {
	log        *zap.SugaredLogger
	httpClient *http.Client
	baseURL    string
	tokens     tokenSource
}

// New creates a GitHub client from configuration.
func New(log *zap.SugaredLogger, cfg config.GithubConfig) *Client {
	httpClient := &http.Client{}
	return &Client{
		log:        log.Named("vcs.github"),
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens: &accessTokenSource{
			httpClient:     httpClient,
			baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
			appID:          cfg.AppID,
			privateKeyPath: cfg.PrivateKeyPath,
			installationID: cfg.InstallationID,
		},
	}
}

type combinedStatusResponse struct {
	Statuses []struct {
		Context   string `json:"context"`
		State     string `json:"state"`
		TargetURL string `json:"target_url"`
	} `json:"statuses"`
}

type checkRunsResponse struct {
	CheckRuns []struct {
		Name       string `json:"name"`
		Status     string `json:"status"`
		Conclusion string `json:"conclusion"`
		DetailsURL string `json:"details_url"`
	} `json:"check_runs"`
}

type commitPullsResponse []struct {
	Number int `json:"number"`
}

// GetCheckResults returns every commit status and check run reported for the
// ref, in the provider's delivery order: statuses first, then check runs. A
// response that cannot be parsed is a hard error, never an empty list.
func (c *Client) GetCheckResults(ctx context.Context, repo entities.RepositoryIdentifier, ref string) ([]entities.CheckResult, error) {
	var combined combinedStatusResponse
	if err := c.get(ctx, fmt.Sprintf("%s/repos/%s/commits/%s/status", c.baseURL, repo, ref), &combined); err != nil {
		return nil, err
	}

	var runs checkRunsResponse
	if err := c.get(ctx, fmt.Sprintf("%s/repos/%s/commits/%s/check-runs", c.baseURL, repo, ref), &runs); err != nil {
		return nil, err
	}

	results := make([]entities.CheckResult, 0, len(combined.Statuses)+len(runs.CheckRuns))
	for _, s := range combined.Statuses {
		results = append(results, entities.CheckResult{
			Context:    s.Context,
			State:      statusState(s.State),
			DetailsURL: s.TargetURL,
		})
	}
	for _, r := range runs.CheckRuns {
		results = append(results, entities.CheckResult{
			Context:    r.Name,
			State:      checkRunState(r.Status, r.Conclusion),
			DetailsURL: r.DetailsURL,
		})
	}
	return results, nil
}

// FindPRNumberForCommit resolves the PR a commit belongs to. Commits pushed
// outside any tracked PR resolve to ok=false, not to an error.
func (c *Client) FindPRNumberForCommit(ctx context.Context, repo entities.RepositoryIdentifier, sha string) (int, bool, error) {
	var pulls commitPullsResponse
	if err := c.get(ctx, fmt.Sprintf("%s/repos/%s/commits/%s/pulls", c.baseURL, repo, sha), &pulls); err != nil {
		return 0, false, err
	}
	if len(pulls) == 0 {
		return 0, false, nil
	}
	return pulls[0].Number, true, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response of %s: %w", url, err)
	}
	return nil
}

// statusState maps commit status states onto check states. GitHub reports
// "error" for broken builds; it counts as a failure.
func statusState(state string) entities.CheckState {
	switch state {
	case "success":
		return entities.CheckSuccess
	case "failure", "error":
		return entities.CheckFailure
	default:
		return entities.CheckPending
	}
}

func checkRunState(status, conclusion string) entities.CheckState {
	if status != "completed" {
		return entities.CheckPending
	}
	switch conclusion {
	case "success":
		return entities.CheckSuccess
	case "failure", "timed_out", "action_required":
		return entities.CheckFailure
	case "neutral", "skipped", "stale":
		return entities.CheckNeutral
	default:
		return entities.CheckPending
	}
}
