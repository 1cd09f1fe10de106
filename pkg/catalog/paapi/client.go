// Package paapi provides a catalog.Client implementation backed by the Amazon
// Product Advertising API 5.0 SearchItems operation.
package paapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"productbot/pkg/catalog"
	"productbot/pkg/serrors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

const (
	signingService = "ProductAdvertisingAPI"
	searchTarget   = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"
	searchPath     = "/paapi5/searchitems"

	// errCodeNoResults is returned with HTTP 404 when a search matches nothing.
	errCodeNoResults = "NoResults"
)

// Options holds credentials and marketplace settings for the API.
type Options struct {
	AccessKey   string // AccessKey is the PA-API access key.
	SecretKey   string // SecretKey is the PA-API secret key.
	PartnerTag  string // PartnerTag is the associate tag used for commission tracking.
	Host        string // Host is the marketplace API host, e.g. webservices.amazon.co.jp.
	Region      string // Region is the signing region of the marketplace, e.g. us-west-2.
	Marketplace string // Marketplace is the marketplace domain, e.g. www.amazon.co.jp.
}

// Client talks to the PA-API and fulfills the catalog.Client interface.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	signer     *v4.Signer
	opts       Options
	now        func() time.Time
}

// searchItemsReq is the SearchItems request body.
type searchItemsReq struct {
	Keywords    string   `json:"Keywords"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace,omitempty"`
	ItemCount   int      `json:"ItemCount"`
	SortBy      string   `json:"SortBy,omitempty"`
	Resources   []string `json:"Resources"`
}

func sortBy(s catalog.SortBy) string {
	switch s {
	case catalog.SortByRating:
		return "AvgCustomerReviews"
	case catalog.SortByRelevance:
		return "Relevance"
	default:
		return ""
	}
}

// resources maps requested fields to PA-API resources. DetailPageURL is part
// of every item and has no resource of its own.
func resources(rs []catalog.Resource) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		switch r {
		case catalog.ResourceTitle:
			out = append(out, "ItemInfo.Title")
		case catalog.ResourcePrice:
			out = append(out, "Offers.Listings.Price")
		case catalog.ResourceURL:
		}
	}

	return out
}

// SearchItems runs one SearchItems call. A NoResults answer is returned as an
// empty slice. Status codes are mapped to serrors kinds.
func (c *Client) SearchItems(ctx context.Context, req catalog.SearchRequest) ([]catalog.Item, error) {
	if c.opts.AccessKey == "" || c.opts.SecretKey == "" || c.opts.PartnerTag == "" {
		return nil, serrors.With(serrors.ErrUnauthorized, "catalog credentials are not configured")
	}

	body, err := json.Marshal(searchItemsReq{
		Keywords:    req.Keywords,
		PartnerTag:  c.opts.PartnerTag,
		PartnerType: "Associates",
		Marketplace: c.opts.Marketplace,
		ItemCount:   req.ItemCount,
		SortBy:      sortBy(req.SortBy),
		Resources:   resources(req.Resources),
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		"https://"+c.opts.Host+searchPath,
		bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("Content-Encoding", "amz-1.0")
	httpReq.Header.Set("X-Amz-Target", searchTarget)

	sum := sha256.Sum256(body)
	creds := aws.Credentials{AccessKeyID: c.opts.AccessKey, SecretAccessKey: c.opts.SecretKey}
	if err := c.signer.SignHTTP(ctx, creds, httpReq, hex.EncodeToString(sum[:]),
		signingService, c.opts.Region, c.now()); err != nil {
		return nil, fmt.Errorf("could not sign request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code, msg := decodeAPIError(b)
		if resp.StatusCode == http.StatusNotFound && code == errCodeNoResults {
			return nil, nil
		}
		if msg == "" {
			msg = strings.TrimSpace(string(b))
		}

		return nil, serrors.With(serrors.FromStatus(resp.StatusCode),
			"search failed with HTTP %d: %s %s", resp.StatusCode, code, msg)
	}

	items, err := decodeSearchItems(b)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not decode response")
	}

	return items, nil
}

// Ensure Client conforms to the catalog.Client interface at compile time.
var _ catalog.Client = (*Client)(nil)

// New constructs a Client that uses the provided http.Client and options.
func New(httpClient *http.Client, opts Options) *Client {
	return &Client{
		httpClient: httpClient,
		signer:     v4.NewSigner(),
		opts:       opts,
		now:        time.Now,
	}
}
