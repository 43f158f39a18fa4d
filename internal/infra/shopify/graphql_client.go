package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GraphQLClient issues Admin API calls against a shop. One client serves all
// shops; the shop domain and access token arrive per call.
type GraphQLClient struct {
	apiVersion string
	client     *http.Client
}

func NewGraphQLClient(apiVersion string) *GraphQLClient {
	if apiVersion == "" {
		apiVersion = "2024-01"
	}
	return &GraphQLClient{
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Do posts a GraphQL document and decodes the data payload into out.
func (c *GraphQLClient) Do(ctx context.Context, shop, accessToken, query string, variables map[string]interface{}, out interface{}) error {
	body := map[string]interface{}{"query": query}
	if variables != nil {
		body["variables"] = variables
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	url := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send graphql request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read graphql response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql http status %d: %s", resp.StatusCode, string(raw))
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("unmarshal graphql response: %w, body: %s", err, string(raw))
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("unmarshal graphql data: %w", err)
		}
	}
	return nil
}
