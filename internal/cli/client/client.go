package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/routinnet/routix-platform-ai/internal/cli/types"
)

// APIClient wraps Hertz Client for HTTP communication with the API server
type APIClient struct {
	client *client.Client
	server string
	token  string
}

// NewAPIClient creates a new API client
func NewAPIClient(server, token string) (*APIClient, error) {
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{
		client: c,
		server: normalizedServer,
		token:  token,
	}, nil
}

// Server returns the normalized server base URL.
func (c *APIClient) Server() string { return c.server }

// Token returns the bearer token used for authenticated requests.
func (c *APIClient) Token() string { return c.token }

// normalizeServerURL normalizes server URL to ensure it has a scheme and no trailing slash
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// do sends one JSON request and unmarshals the envelope into out.
func (c *APIClient) do(ctx context.Context, method, uri string, body, out any) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(method)
	req.SetRequestURI(c.server + uri)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		bodyBytes, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(bodyBytes)
	}

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode < 200 || statusCode >= 300 {
		return apiError(statusCode, resp.Body())
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := sonic.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// apiError extracts the server's error envelope when present.
func apiError(statusCode int, body []byte) error {
	var envelope types.APIResponse[any]
	if err := sonic.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return fmt.Errorf("%s (HTTP %d)", envelope.Message, statusCode)
	}
	return fmt.Errorf("request failed with HTTP status: %d", statusCode)
}

// Register creates a new account
func (c *APIClient) Register(ctx context.Context, email, username, password string) (*types.User, error) {
	var resp types.APIResponse[types.User]
	err := c.do(ctx, consts.MethodPost, endpointRegister, types.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Login performs user login
func (c *APIClient) Login(ctx context.Context, email, password string) (*types.LoginData, error) {
	var resp types.APIResponse[types.LoginData]
	err := c.do(ctx, consts.MethodPost, endpointLogin, types.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListConversations lists the user's conversations
func (c *APIClient) ListConversations(ctx context.Context) ([]types.Conversation, error) {
	var resp types.APIResponse[types.ListData[types.Conversation]]
	if err := c.do(ctx, consts.MethodGet, endpointConversations, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Items, nil
}

// CreateConversation opens a new thread
func (c *APIClient) CreateConversation(ctx context.Context, title string) (*types.Conversation, error) {
	var resp types.APIResponse[types.Conversation]
	err := c.do(ctx, consts.MethodPost, endpointConversations, types.CreateConversationRequest{Title: title}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteConversation deletes a thread
func (c *APIClient) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.do(ctx, consts.MethodDelete, fmt.Sprintf(endpointConversationByID, conversationID), nil, nil)
}

// ListMessages lists messages in a conversation, oldest first
func (c *APIClient) ListMessages(ctx context.Context, conversationID string) ([]types.Message, error) {
	var resp types.APIResponse[types.ListData[types.Message]]
	uri := fmt.Sprintf(endpointConversationMsgs, conversationID)
	if err := c.do(ctx, consts.MethodGet, uri, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Items, nil
}

// SendMessage sends one chat message over plain HTTP
func (c *APIClient) SendMessage(ctx context.Context, req *types.SendMessageRequest) (*types.ChatData, error) {
	var resp types.APIResponse[types.ChatData]
	if err := c.do(ctx, consts.MethodPost, endpointChat, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListGenerations lists the user's generation jobs
func (c *APIClient) ListGenerations(ctx context.Context, status string) ([]types.Generation, error) {
	uri := endpointGenerations
	if status != "" {
		uri += "?status=" + url.QueryEscape(status)
	}
	var resp types.APIResponse[types.ListData[types.Generation]]
	if err := c.do(ctx, consts.MethodGet, uri, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Items, nil
}

// GetGeneration fetches one generation job
func (c *APIClient) GetGeneration(ctx context.Context, generationID string) (*types.Generation, error) {
	var resp types.APIResponse[types.Generation]
	uri := fmt.Sprintf(endpointGenerationByID, generationID)
	if err := c.do(ctx, consts.MethodGet, uri, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CancelGeneration requests cancellation of a queued or running job
func (c *APIClient) CancelGeneration(ctx context.Context, generationID string) (*types.Generation, error) {
	var resp types.APIResponse[types.Generation]
	uri := fmt.Sprintf(endpointGenerationCancel, generationID)
	if err := c.do(ctx, consts.MethodPost, uri, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GenerationStats fetches aggregate generation statistics
func (c *APIClient) GenerationStats(ctx context.Context) (*types.GenerationStats, error) {
	var resp types.APIResponse[types.GenerationStats]
	if err := c.do(ctx, consts.MethodGet, endpointGenerationStats, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListAlgorithms lists the available generation algorithms
func (c *APIClient) ListAlgorithms(ctx context.Context) ([]types.Algorithm, error) {
	var resp types.APIResponse[[]types.Algorithm]
	if err := c.do(ctx, consts.MethodGet, endpointAlgorithms, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreditBalance fetches the current credit balance
func (c *APIClient) CreditBalance(ctx context.Context) (int, error) {
	var resp types.APIResponse[types.CreditBalance]
	if err := c.do(ctx, consts.MethodGet, endpointCreditBalance, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Data.Credits, nil
}

// CreditHistory lists the credit ledger, newest first
func (c *APIClient) CreditHistory(ctx context.Context) ([]types.CreditTransaction, error) {
	var resp types.APIResponse[types.ListData[types.CreditTransaction]]
	if err := c.do(ctx, consts.MethodGet, endpointCreditHistory, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Items, nil
}

// CreditPackages lists the purchasable credit bundles
func (c *APIClient) CreditPackages(ctx context.Context) ([]types.CreditPackage, error) {
	var resp types.APIResponse[[]types.CreditPackage]
	if err := c.do(ctx, consts.MethodGet, endpointCreditPackages, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PurchaseCredits buys one credit package
func (c *APIClient) PurchaseCredits(ctx context.Context, packageID string) (*types.PurchaseData, error) {
	var resp types.APIResponse[types.PurchaseData]
	body := map[string]string{"package_id": packageID}
	if err := c.do(ctx, consts.MethodPost, endpointCreditPurchase, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// SocketURL builds the websocket URL for a conversation, carrying the
// token as a query parameter.
func (c *APIClient) SocketURL(conversationID string) string {
	wsBase := strings.Replace(c.server, "http", "ws", 1)
	uri := fmt.Sprintf(endpointConversationSocket, conversationID)
	return wsBase + uri + "?token=" + url.QueryEscape(c.token)
}
