package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReturnsServer(t *testing.T) {
	server := New("v1.0.0-test")
	assert.NotNil(t, server)
}

func TestRun_WithInMemoryTransport(t *testing.T) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, "v1.0.0-test", serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, result.Tools, 2)

	cancel()
}

func TestServer_ListsTools(t *testing.T) {
	server := New("v1.0.0-test")

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["detect_structure"], "should have detect_structure tool")
	assert.True(t, names["validate_location"], "should have validate_location tool")

	// Both tools are read-only filesystem inspections.
	for _, tool := range result.Tools {
		require.NotNil(t, tool.Annotations, "tool %s should carry annotations", tool.Name)
		assert.True(t, tool.Annotations.ReadOnlyHint, "tool %s should be read-only", tool.Name)
	}

	cancel()
}
