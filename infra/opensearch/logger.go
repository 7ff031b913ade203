package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/gomexpay/edenred/provider"
)

// Logger ships operation records to OpenSearch. It implements
// provider.OperationStore so it can sit next to the SQLite store.
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch operation logger
func NewLogger(client *Client) *Logger {
	return &Logger{client: client}
}

// SaveOperation indexes one operation record
func (l *Logger) SaveOperation(ctx context.Context, entry provider.OperationLog) error {
	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      IndexName,
		DocumentID: entry.ID,
		Body:       bytes.NewReader(doc),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index operation: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return &IndexError{Response: res.String()}
	}

	return nil
}
