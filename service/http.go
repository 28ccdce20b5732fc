//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is a thin HTTP implementation of Runtime and Evaluation against
// a gateway exposing the managed service. Retry policy and credential
// resolution stay with the caller and the transport respectively.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// NewClient creates a client for the gateway at baseURL.
func NewClient(baseURL string, opt ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opt {
		o(c)
	}
	return c
}

var _ Runtime = (*Client)(nil)
var _ Evaluation = (*Client)(nil)

// Invoke submits a prompt payload to the agent runtime.
func (c *Client) Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error) {
	body, err := c.post(ctx, "/invocations", req)
	if err != nil {
		return nil, err
	}
	payload, err := DecodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("decode invocation response: %w", err)
	}
	return &InvokeResponse{Payload: payload}, nil
}

// Run asks the evaluation service to score a session.
func (c *Client) Run(ctx context.Context, req *RunRequest) (*RunResponse, error) {
	body, err := c.post(ctx, "/evaluations", req)
	if err != nil {
		return nil, err
	}
	var out RunResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode evaluation response: %w", err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, bytes.TrimSpace(data))
	}
	return data, nil
}
