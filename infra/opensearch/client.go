package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/gomexpay/edenred/infra/config"
)

// IndexName holds the operation records shipped by the service.
const IndexName = "edenred-operations"

// Client wraps the OpenSearch client
type Client struct {
	client *opensearch.Client
}

// NewClient creates a new OpenSearch client from the service configuration
func NewClient(cfg *config.AppConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.OpenSearchURL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // For development/testing
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	return &Client{client: client}, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// EnsureIndex creates the operations index with its mapping if it does not
// exist yet.
func (c *Client) EnsureIndex(ctx context.Context) error {
	existsReq := opensearchapi.IndicesExistsRequest{Index: []string{IndexName}}
	res, err := existsReq.Do(ctx, c.client)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"id": {"type": "keyword"},
				"provider": {"type": "keyword"},
				"operation": {"type": "keyword"},
				"cardToken": {"type": "keyword"},
				"identifier": {"type": "keyword"},
				"amount": {"type": "long"},
				"success": {"type": "boolean"},
				"errorMessage": {"type": "text"},
				"durationMs": {"type": "long"},
				"createdAt": {"type": "date"}
			}
		}
	}`

	createReq := opensearchapi.IndicesCreateRequest{
		Index: IndexName,
		Body:  strings.NewReader(mapping),
	}
	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return &IndexError{Response: createRes.String()}
	}

	return nil
}

// IndexError reports a failed index-level OpenSearch request
type IndexError struct {
	Response string
}

func (e *IndexError) Error() string {
	return "opensearch error: " + e.Response
}
