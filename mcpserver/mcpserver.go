// Package mcpserver exposes the logic service as MCP tools so a tracker or
// an agent can ask what is reachable.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nathoo/yokulogic/engine"
	"github.com/nathoo/yokulogic/engine/inventory"
	"github.com/nathoo/yokulogic/logger"
	"github.com/nathoo/yokulogic/service"
	"github.com/nathoo/yokulogic/types"
)

// CheckInput is shared by the reachability tools.
type CheckInput struct {
	Mode      string         `json:"mode,omitempty" jsonschema:"Logic mode: normal, hard or very_hard"`
	Inventory map[string]int `json:"inventory,omitempty" jsonschema:"Item name to count held"`
}

type LocationInput struct {
	Mode      string         `json:"mode,omitempty" jsonschema:"Logic mode: normal, hard or very_hard"`
	Inventory map[string]int `json:"inventory,omitempty" jsonschema:"Item name to count held"`
	Location  string         `json:"location" jsonschema:"Location name"`
}

type LocationOutput struct {
	Location  string `json:"location"`
	Region    string `json:"region"`
	Reachable bool   `json:"reachable"`
}

type GoalOutput struct {
	Mode string `json:"mode"`
	Goal bool   `json:"goal"`
}

type PathInput struct {
	Mode      string         `json:"mode,omitempty" jsonschema:"Logic mode: normal, hard or very_hard"`
	Inventory map[string]int `json:"inventory,omitempty" jsonschema:"Item name to count held"`
	Region    string         `json:"region" jsonschema:"Region to route to"`
}

type PathOutput struct {
	Region    string   `json:"region"`
	Reachable bool     `json:"reachable"`
	Exits     []string `json:"exits,omitempty"`
}

type PoolItem struct {
	Name           string `json:"name"`
	ID             int64  `json:"id"`
	Count          int    `json:"count"`
	Classification string `json:"classification"`
	Group          string `json:"group,omitempty"`
}

type PoolOutput struct {
	Items []PoolItem `json:"items"`
	Total int        `json:"total"`
}

type PlaythroughInput struct {
	Mode      string            `json:"mode,omitempty" jsonschema:"Logic mode: normal, hard or very_hard"`
	Inventory map[string]int    `json:"inventory,omitempty" jsonschema:"Item name to count held"`
	Placement map[string]string `json:"placement" jsonschema:"Location name to the item placed there"`
}

// Server answers tool calls against one service.
type Server struct {
	svc     *service.Service
	mode    types.Mode
	version string
	logger  *slog.Logger
}

// New creates a server. mode is used when a call names none.
func New(svc *service.Service, mode types.Mode, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, mode: mode, version: version, logger: log}
}

// called logs one tool call under a fresh request id.
func (s *Server) called(tool string) *slog.Logger {
	log := logger.WithRequestID(s.logger, uuid.NewString()).With("tool", tool)
	log.Debug("tool call")
	return log
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "yokulogic",
		Version: s.version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "reachable_regions",
		Description: "List the regions and locations reachable with an inventory, and whether the goal is met.",
	}, s.HandleReachable)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "location_reachable",
		Description: "Report whether one location can be reached with an inventory.",
	}, s.HandleLocation)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "goal_satisfied",
		Description: "Report whether the goal region can be reached with an inventory.",
	}, s.HandleGoal)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "path_to",
		Description: "Give a shortest route of exits from the start to a region.",
	}, s.HandlePath)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "item_pool",
		Description: "List every item in the pool with its count and classification.",
	}, s.HandlePool)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "playthrough",
		Description: "Replay an item placement sphere by sphere and report whether it beats the game.",
	}, s.HandlePlaythrough)
	return srv
}

func (s *Server) resolve(in *CheckInput) (types.Mode, inventory.Counts, error) {
	if in == nil {
		return s.mode, inventory.Counts{}, nil
	}
	mode := s.mode
	if in.Mode != "" {
		m, err := types.ParseMode(in.Mode)
		if err != nil {
			return 0, nil, err
		}
		mode = m
	}
	// Hosts may send game save ids instead of item names.
	tables := s.svc.World().Tables
	inv := inventory.Counts{}
	for name, n := range in.Inventory {
		if n < 0 {
			return 0, nil, fmt.Errorf("negative count %d for %q", n, name)
		}
		if !tables.IsItem(name) {
			if it, ok := tables.ItemByAlias(name); ok {
				name = it.Name
			}
		}
		inv.Add(name, n)
	}
	return mode, inv, nil
}

func (s *Server) HandleReachable(ctx context.Context, _ *mcp.CallToolRequest, in *CheckInput) (*mcp.CallToolResult, *service.Report, error) {
	s.called("reachable_regions")
	mode, inv, err := s.resolve(in)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.svc.Check(ctx, mode, inv)
	if err != nil {
		return nil, nil, err
	}
	return nil, r, nil
}

func (s *Server) HandleLocation(ctx context.Context, _ *mcp.CallToolRequest, in *LocationInput) (*mcp.CallToolResult, *LocationOutput, error) {
	s.called("location_reachable")
	if in == nil || in.Location == "" {
		return nil, nil, errors.New("location is required")
	}
	mode, inv, err := s.resolve(&CheckInput{Mode: in.Mode, Inventory: in.Inventory})
	if err != nil {
		return nil, nil, err
	}
	ok, err := s.svc.LocationReachable(ctx, mode, inv, in.Location)
	if err != nil {
		return nil, nil, err
	}
	g, _ := s.svc.Graph(mode)
	loc, _ := g.Location(in.Location)
	return nil, &LocationOutput{
		Location:  loc.Name,
		Region:    loc.Region.Name,
		Reachable: ok,
	}, nil
}

func (s *Server) HandleGoal(ctx context.Context, _ *mcp.CallToolRequest, in *CheckInput) (*mcp.CallToolResult, *GoalOutput, error) {
	s.called("goal_satisfied")
	mode, inv, err := s.resolve(in)
	if err != nil {
		return nil, nil, err
	}
	ok, err := s.svc.GoalSatisfied(ctx, mode, inv)
	if err != nil {
		return nil, nil, err
	}
	return nil, &GoalOutput{Mode: mode.String(), Goal: ok}, nil
}

func (s *Server) HandlePath(_ context.Context, _ *mcp.CallToolRequest, in *PathInput) (*mcp.CallToolResult, *PathOutput, error) {
	s.called("path_to")
	if in == nil || in.Region == "" {
		return nil, nil, errors.New("region is required")
	}
	mode, inv, err := s.resolve(&CheckInput{Mode: in.Mode, Inventory: in.Inventory})
	if err != nil {
		return nil, nil, err
	}
	e, err := s.svc.Engine(mode)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := e.Graph.Region(in.Region); !ok {
		return nil, nil, fmt.Errorf("unknown region %q", in.Region)
	}
	path, ok := e.PathTo(inv, in.Region)
	out := &PathOutput{Region: in.Region, Reachable: ok}
	for _, ex := range path {
		out.Exits = append(out.Exits, ex.Name)
	}
	return nil, out, nil
}

func (s *Server) HandlePool(_ context.Context, _ *mcp.CallToolRequest, _ *struct{}) (*mcp.CallToolResult, *PoolOutput, error) {
	s.called("item_pool")
	tables := s.svc.World().Tables
	out := &PoolOutput{}
	for _, it := range tables.Items {
		out.Items = append(out.Items, PoolItem{
			Name:           it.Name,
			ID:             it.ID,
			Count:          it.Count,
			Classification: string(tables.Classify(it.Name)),
			Group:          string(it.Group),
		})
		out.Total += it.Count
	}
	return nil, out, nil
}

func (s *Server) HandlePlaythrough(ctx context.Context, _ *mcp.CallToolRequest, in *PlaythroughInput) (*mcp.CallToolResult, *engine.Playthrough, error) {
	log := s.called("playthrough")
	if in == nil {
		in = &PlaythroughInput{}
	}
	mode, inv, err := s.resolve(&CheckInput{Mode: in.Mode, Inventory: in.Inventory})
	if err != nil {
		return nil, nil, err
	}
	pt, err := s.svc.Playthrough(ctx, mode, inv, in.Placement)
	if err != nil {
		logger.WithError(log, err).Warn("playthrough rejected")
		return nil, nil, err
	}
	log.Info("playthrough replayed", "mode", mode.String(), "spheres", len(pt.Spheres), "goal", pt.Goal)
	return nil, pt, nil
}

// RunStdio serves the tools over stdin and stdout until ctx ends or the
// client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP endpoint mounted at path. Requests
// from an Origin outside origins are refused, and when token is set every
// request must carry it as a bearer token.
func (s *Server) Handler(path string, origins []string, token string) http.Handler {
	srv := s.MCP()
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return srv
	}, &mcp.StreamableHTTPOptions{
		JSONResponse: true,
		Logger:       s.logger,
	})

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	originSet := map[string]struct{}{}
	for _, origin := range origins {
		originSet[origin] = struct{}{}
	}

	guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAllowedOrigin(r, originSet) {
			s.logger.Warn("rejected MCP request", "origin", r.Header.Get("Origin"))
			http.Error(w, "Forbidden origin", http.StatusForbidden)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})

	mux := http.NewServeMux()
	mux.Handle(path, guarded)
	return mux
}

// ServeHTTP listens on addr until ctx ends, then shuts down.
func (s *Server) ServeHTTP(ctx context.Context, addr, path string, origins []string, token string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(path, origins, token),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving MCP over HTTP", "addr", addr, "path", path)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdown)
	}
}

func isAllowedOrigin(r *http.Request, allowed map[string]struct{}) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := allowed[origin]
	return ok
}
