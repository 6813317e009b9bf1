package api

import (
	"context"
	"net/http"
)

// HealthStatus represents the service health response
type HealthStatus struct {
	Status string `json:"status"`
}

// ServiceInfo represents the service root information
type ServiceInfo struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

// Health performs a service health check
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Info retrieves the service root information
func (c *Client) Info(ctx context.Context) (*ServiceInfo, error) {
	var info ServiceInfo
	if err := c.do(ctx, http.MethodGet, "/", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Available reports whether the service answers its health check
func (c *Client) Available(ctx context.Context) bool {
	_, err := c.Health(ctx)
	return err == nil
}
