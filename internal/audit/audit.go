package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
)

// Event is one security-relevant occurrence: a login attempt, a token
// revocation, a password reset. Events are indexed as-is; searching
// and retention are the cluster's problem.
type Event struct {
	Action   string    `json:"action"`
	Email    string    `json:"email,omitempty"`
	Provider string    `json:"provider,omitempty"`
	Outcome  string    `json:"outcome"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Recorder writes auth audit events to an Elasticsearch index. A nil
// Recorder drops everything.
type Recorder struct {
	client *elasticsearch.Client
	index  string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("audit: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("audit: elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("audit: elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

func NewRecorder(client *elasticsearch.Client, index string) *Recorder {
	if client == nil {
		return nil
	}
	return &Recorder{client: client, index: index}
}

func (r *Recorder) Record(ctx context.Context, e Event) error {
	if r == nil {
		return nil
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: marshal: %w", err)
	}

	res, err := r.client.Index(r.index, bytes.NewReader(data), r.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("audit: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("audit: index error: %s", res.Status())
	}
	return nil
}
