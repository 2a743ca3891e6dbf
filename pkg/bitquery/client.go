package bitquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phishy-token-checker/pkg/retry"
)

// ── Bitquery GraphQL Client ─────────────────────────────────
// One POST per query against the streaming endpoint, Bearer auth, bounded
// timeout, no pagination. Upstream failures always come back as errors;
// callers never see a silently-empty success.

type Client struct {
	url    string
	apiKey string
	http   *http.Client
	policy retry.Policy
}

func New(url, apiKey string, timeout time.Duration, policy retry.Policy) *Client {
	policy.OnRetry = func(attempt int, wait time.Duration, err error) {
		log.Warn().Int("attempt", attempt).Dur("wait", wait).Err(err).Msg("bitquery retrying")
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		policy: policy,
	}
}

type gqlRequest struct {
	Query     string      `json:"query"`
	Variables interface{} `json:"variables"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type gqlError struct {
	Message string `json:"message"`
}

// Query posts a GraphQL document and decodes the data envelope into out.
// Transport errors and 429/5xx responses are retried per the policy;
// GraphQL-level errors and malformed payloads are permanent.
func (c *Client) Query(ctx context.Context, query string, variables interface{}, out interface{}) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("bitquery marshal: %w", err)
	}

	var data json.RawMessage
	err = retry.Do(ctx, c.policy, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("bitquery request: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
		if err != nil {
			return fmt.Errorf("bitquery read: %w", err)
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("bitquery status %d: %s", resp.StatusCode, snippet(raw))
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("bitquery status %d: %s", resp.StatusCode, snippet(raw)))
		}

		var r gqlResponse
		if err := json.Unmarshal(raw, &r); err != nil {
			return retry.Permanent(fmt.Errorf("bitquery unmarshal: %w", err))
		}
		if len(r.Errors) > 0 {
			return retry.Permanent(fmt.Errorf("bitquery graphql: %s", r.Errors[0].Message))
		}
		if len(r.Data) == 0 || string(r.Data) == "null" {
			return retry.Permanent(fmt.Errorf("bitquery: response has no data"))
		}
		data = r.Data
		return nil
	})
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("bitquery decode: %w", err)
		}
	}
	return nil
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
