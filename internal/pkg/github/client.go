package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/logger"
)

const DefaultBaseURL = "https://api.github.com"

type Config struct {
	BaseURL string
	Token   string
	// Repo is "owner/name".
	Repo   string
	Path   string
	Branch string
}

// File is the content of the tracked file at one version. SHA is the version token the
// next write has to present.
type File struct {
	Path    string
	SHA     string
	Content []byte
}

// Client reads and writes one file of a remote repository through the contents API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

func (c *Client) Name() string {
	return fmt.Sprintf("github:%s/%s", c.cfg.Repo, c.cfg.Path)
}

type contentResponse struct {
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type blobResponse struct {
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type updateRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type updateResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) contentsURL() string {
	u := fmt.Sprintf("%s/repos/%s/contents/%s", c.cfg.BaseURL, c.cfg.Repo, strings.TrimLeft(c.cfg.Path, "/"))
	if c.cfg.Branch != "" {
		u += "?ref=" + url.QueryEscape(c.cfg.Branch)
	}
	return u
}

// Get fetches the current content and version token of the file. Reads are idempotent
// and retried on transport errors and 5xx responses.
func (c *Client) Get(ctx context.Context) (*File, error) {
	var meta contentResponse
	if err := c.getJSON(ctx, c.contentsURL(), &meta); err != nil {
		return nil, err
	}

	encoded := meta.Content
	if encoded == "" {
		// the contents API leaves content empty for files over 1MB
		var blob blobResponse
		blobURL := fmt.Sprintf("%s/repos/%s/git/blobs/%s", c.cfg.BaseURL, c.cfg.Repo, meta.SHA)
		if err := c.getJSON(ctx, blobURL, &blob); err != nil {
			return nil, err
		}
		encoded = blob.Content
	}

	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(encoded, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", constants.ErrRemoteRead, meta.Path, err)
	}

	return &File{Path: meta.Path, SHA: meta.SHA, Content: content}, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst interface{}) error {
	var body []byte
	err := backoff.Retry(
		func() error {
			req, err := c.newRequest(ctx, http.MethodGet, u, nil)
			if err != nil {
				return backoff.Permanent(err)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("httpClient.Do: %w", err)
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}

			switch {
			case resp.StatusCode == http.StatusOK:
				return nil
			case resp.StatusCode == http.StatusNotFound:
				return backoff.Permanent(fmt.Errorf("%w: %s", constants.ErrMissingDataSource, remoteMessage(resp, body)))
			case resp.StatusCode >= 500:
				return fmt.Errorf("%w: %s", constants.ErrRemoteRead, remoteMessage(resp, body))
			default:
				return backoff.Permanent(fmt.Errorf("%w: %s", constants.ErrRemoteRead, remoteMessage(resp, body)))
			}
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3),
			ctx,
		),
	)
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decode response: %v", constants.ErrRemoteRead, err)
	}
	return nil
}

// Put replaces the file content. sha must be the version token the caller last read;
// the remote rejects the write with a conflict when the file moved on since then.
// Put is never retried.
func (c *Client) Put(ctx context.Context, content []byte, sha, message string) (string, error) {
	payload, err := sonic.Marshal(updateRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
		Branch:  c.cfg.Branch,
	})
	if err != nil {
		return "", fmt.Errorf("marshal update: %w", err)
	}

	u := fmt.Sprintf("%s/repos/%s/contents/%s", c.cfg.BaseURL, c.cfg.Repo, strings.TrimLeft(c.cfg.Path, "/"))
	req, err := c.newRequest(ctx, http.MethodPut, u, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", constants.ErrRemoteWrite, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", constants.ErrRemoteWrite, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return "", fmt.Errorf("%w: %s", constants.ErrVersionConflict, remoteMessage(resp, body))
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrRemoteWrite, remoteMessage(resp, body))
	}

	var out updateResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", constants.ErrRemoteWrite, err)
	}

	logger.Infof(ctx, "wrote %s at version %s", c.cfg.Path, out.Content.SHA)
	return out.Content.SHA, nil
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	return req, nil
}

// remoteMessage keeps the remote's own wording so operators see it verbatim.
func remoteMessage(resp *http.Response, body []byte) string {
	var e errorResponse
	if err := sonic.Unmarshal(body, &e); err == nil && e.Message != "" {
		return fmt.Sprintf("%d %s", resp.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
