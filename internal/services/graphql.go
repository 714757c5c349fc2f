// Generic GraphQL transport for the AniList API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/faddix/aninote/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultGraphQLURL = "https://graphql.anilist.co"

// GraphQLClient posts query documents with variables to a single GraphQL
// endpoint and decodes the data payload into a caller-provided value.
type GraphQLClient struct {
	endpoint      string
	httpClient    *http.Client
	limiter       *rate.Limiter
	authenticated bool
}

// GraphQLError is a single error entry from a GraphQL response.
type GraphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("graphql error (status %d): %s", e.Status, e.Message)
}

// NotFound reports whether the error represents a missing resource rather
// than a failed call.
func (e *GraphQLError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// NewGraphQLClient creates a client for the given endpoint. A non-empty token
// installs an [oauth2] transport that attaches it as a bearer token; rps
// bounds the request rate (AniList allows 90 requests per minute).
func NewGraphQLClient(endpoint, token string, rps float64) *GraphQLClient {
	if endpoint == "" {
		endpoint = defaultGraphQLURL
	}
	if rps <= 0 {
		rps = 1.5
	}

	client := http.DefaultClient
	authenticated := false
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = oauth2.NewClient(context.Background(), src)
		authenticated = true
	}

	return &GraphQLClient{
		endpoint:      endpoint,
		httpClient:    client,
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		authenticated: authenticated,
	}
}

// Authenticated reports whether the client carries an access token.
func (c *GraphQLClient) Authenticated() bool {
	return c.authenticated
}

// Do executes a GraphQL operation and unmarshals the data payload into out.
// GraphQL-level errors are returned as *GraphQLError (the first entry).
func (c *GraphQLClient) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("%w: status %d: %v", shared.ErrAPIRequest, resp.StatusCode, err)
	}

	if len(decoded.Errors) > 0 {
		gerr := decoded.Errors[0]
		return &gerr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
