// Package server exposes the Comic Vine tools over MCP, either on stdio or
// on a streamable HTTP endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
	"github.com/Urlyss/comic-database-mcp/internal/registry"
	"github.com/Urlyss/comic-database-mcp/internal/tools"
)

const (
	Name    = "comic-vine-mcp-server"
	Version = "1.0.0"
)

// NewMCPServer builds a server whose tools all call api.
func NewMCPServer(api tools.API, logger *slog.Logger) (*mcp.Server, error) {
	if api == nil {
		return nil, comicvine.ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reg := registry.New()
	if err := tools.Register(reg, tools.NewHandler(api, logger)); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	s := mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, &mcp.ServerOptions{
		Instructions: reg.Instructions(),
	})
	reg.Install(s)
	addFieldResources(s)
	return s, nil
}

// Serve runs s on transport until the peer disconnects or ctx ends.
func Serve(ctx context.Context, s *mcp.Server, transport mcp.Transport) error {
	err := s.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// RunStdio serves one client over stdin/stdout.
func RunStdio(ctx context.Context, api tools.API, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s, err := NewMCPServer(api, logger)
	if err != nil {
		return err
	}
	logger.Info("serving MCP on stdio", "server", Name, "version", Version)
	return Serve(ctx, s, &mcp.StdioTransport{})
}
