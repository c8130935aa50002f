package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a typed HTTP client for the directory API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the directory API at baseURL, e.g.
// "http://localhost:3100".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ListEmployees fetches all employees.
func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// AddEmployee creates a new employee.
func (c *Client) AddEmployee(ctx context.Context, input EmployeeInput) (*Employee, error) {
	emp := new(Employee)
	if err := c.do(ctx, http.MethodPost, "/employees", input, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// UpdateEmployee overwrites an existing employee.
func (c *Client) UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (*Employee, error) {
	emp := new(Employee)
	if err := c.do(ctx, http.MethodPut, "/employees/"+url.PathEscape(id), input, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id string) (*DeleteResult, error) {
	res := new(DeleteResult)
	if err := c.do(ctx, http.MethodDelete, "/employees/"+url.PathEscape(id), nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read directory API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("directory API error (HTTP %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("directory API error: HTTP %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode directory API response: %w", err)
		}
	}
	return nil
}
