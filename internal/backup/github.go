package backup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/google/go-github/v66/github"
	"go.opentelemetry.io/otel/attribute"
)

// GithubUploader keeps the data file in a GitHub repository through the contents API.
type GithubUploader struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	now    func() time.Time
}

func NewGithubUploader(httpClient *http.Client, token, owner, repo, branch string) *GithubUploader {
	return &GithubUploader{
		client: github.NewClient(httpClient).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
		branch: branch,
		now:    time.Now,
	}
}

func (u *GithubUploader) Name() string {
	return "github"
}

// Upsert updates the file passing its current blob SHA, or creates it when it does not exist yet.
// The returned revision is the new blob SHA.
func (u *GithubUploader) Upsert(ctx context.Context, name string, content []byte) (_ string, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.github.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("repo", u.owner+"/"+u.repo),
		attribute.String("path", name),
	)

	previousSHA, err := u.currentSHA(ctx, name)
	if err != nil {
		return "", err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("backup %s at %s", name, u.now().UTC().Format(time.RFC3339))),
		Content: content,
	}
	if u.branch != "" {
		opts.Branch = github.String(u.branch)
	}

	var resp *github.RepositoryContentResponse
	if previousSHA == "" {
		resp, _, err = u.client.Repositories.CreateFile(ctx, u.owner, u.repo, name, opts)
	} else {
		opts.SHA = github.String(previousSHA)
		resp, _, err = u.client.Repositories.UpdateFile(ctx, u.owner, u.repo, name, opts)
	}
	if err != nil {
		return "", fmt.Errorf("upload %s to %s/%s: %w", name, u.owner, u.repo, err)
	}

	if resp.Content == nil {
		return "", errors.New("github returned no content metadata")
	}
	return resp.Content.GetSHA(), nil
}

// currentSHA returns the blob SHA of the existing file, or "" when there is none.
func (u *GithubUploader) currentSHA(ctx context.Context, name string) (string, error) {
	var getOpts *github.RepositoryContentGetOptions
	if u.branch != "" {
		getOpts = &github.RepositoryContentGetOptions{Ref: u.branch}
	}

	file, _, resp, err := u.client.Repositories.GetContents(ctx, u.owner, u.repo, name, getOpts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("get %s from %s/%s: %w", name, u.owner, u.repo, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s in %s/%s is a directory", name, u.owner, u.repo)
	}

	return file.GetSHA(), nil
}
