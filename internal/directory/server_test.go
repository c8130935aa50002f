package directory

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *Client {
	t.Helper()
	store := newTestDirectoryStore(t)
	srv, err := NewServer(ServerConfig{Store: store})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestAPICRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestAPI(t)

	created, err := client.AddEmployee(ctx, EmployeeInput{
		Name:  "Jonas Brandt",
		Role:  "Designer",
		Email: "jonas@example.com",
		Phone: "+49 30 1234",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	employees, err := client.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Jonas Brandt", employees[0].Name)

	updated, err := client.UpdateEmployee(ctx, created.ID, EmployeeInput{
		Name:  "Jonas Brandt",
		Role:  "Design Lead",
		Email: "jonas@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Design Lead", updated.Role)

	res, err := client.DeleteEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, created.ID, res.DeletedID)

	employees, err = client.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestAPIValidationError(t *testing.T) {
	client := newTestAPI(t)

	_, err := client.AddEmployee(context.Background(), EmployeeInput{Name: "Only Name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestAPIUnknownEmployee(t *testing.T) {
	ctx := context.Background()
	client := newTestAPI(t)

	_, err := client.UpdateEmployee(ctx, "nope", EmployeeInput{Name: "X", Role: "Y", Email: "x@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	_, err = client.DeleteEmployee(ctx, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}
