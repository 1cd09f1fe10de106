// Package xapi provides a poster.Client implementation backed by the X API v2
// create-post endpoint, authenticated with OAuth 1.0a user context.
package xapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"productbot/pkg/poster"
	"productbot/pkg/serrors"
	"strings"

	"github.com/dghubble/oauth1"
)

// DefaultEndpoint is the create-post URL of the X API v2.
const DefaultEndpoint = "https://api.twitter.com/2/tweets"

// Credentials holds the OAuth 1.0a consumer and user access credentials.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

func (c Credentials) complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Client talks to the X API and fulfills the poster.Client interface.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient signs every request with OAuth 1.0a
	endpoint   string
	authorized bool
}

// apiError is the problem body returned by the X API on failures.
type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e apiError) message() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case len(e.Errors) > 0:
		return e.Errors[0].Message
	default:
		return e.Title
	}
}

// CreatePost publishes text as a single post and returns the post ID.
func (c *Client) CreatePost(ctx context.Context, text string) (poster.PostRes, error) {
	if !c.authorized {
		return poster.PostRes{}, serrors.With(serrors.ErrUnauthorized, "posting credentials are not configured")
	}
	if strings.TrimSpace(text) == "" {
		return poster.PostRes{}, serrors.With(serrors.ErrBadRequest, "post text is empty")
	}

	type createReq struct {
		Text string `json:"text"`
	}
	bodyBytes, err := json.Marshal(createReq{Text: text})
	if err != nil {
		return poster.PostRes{}, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return poster.PostRes{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return poster.PostRes{}, serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return poster.PostRes{}, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		msg := strings.TrimSpace(string(b))
		if json.Unmarshal(b, &apiErr) == nil && apiErr.message() != "" {
			msg = apiErr.message()
		}

		return poster.PostRes{}, serrors.With(serrors.FromStatus(resp.StatusCode),
			"post failed with HTTP %d: %s", resp.StatusCode, msg)
	}

	var createResp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &createResp); err != nil {
		return poster.PostRes{}, serrors.Wrap(serrors.ErrInternal, err, "could not decode response")
	}

	return poster.PostRes{ID: createResp.Data.ID}, nil
}

// Ensure Client conforms to the poster.Client interface at compile time.
var _ poster.Client = (*Client)(nil)

// New constructs a Client posting to endpoint (DefaultEndpoint when empty).
// Requests go through httpClient's transport after being signed with creds.
func New(httpClient *http.Client, endpoint string, creds Credentials) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, httpClient)
	signed := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret).
		Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret))
	signed.Timeout = httpClient.Timeout

	return &Client{
		httpClient: signed,
		endpoint:   endpoint,
		authorized: creds.complete(),
	}
}
