// Package mcptools exposes an air conditioner as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
)

// Controller is the appliance surface the tools drive. *ac.AC implements it.
type Controller interface {
	Fetch(ctx context.Context) (*ac.Status, error)
	SetPower(ctx context.Context, on bool) (internal.UpdateResult, error)
	SetMode(ctx context.Context, mode ac.Mode) (internal.UpdateResult, error)
	SetTemperature(ctx context.Context, celsius int) (internal.UpdateResult, error)
	SetFanSpeed(ctx context.Context, speed ac.FanSpeed) (internal.UpdateResult, error)
}

type handler func(ctx context.Context, args json.RawMessage) (string, error)

// Server serves appliance tools over MCP.
type Server struct {
	server *mcp.Server
	ac     Controller
}

// New creates a server with every appliance tool registered.
func New(name, version string, controller Controller) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		ac:     controller,
	}

	s.add("get_status", "Read the air conditioner status: power, mode, temperatures and fan speed.",
		`{"type":"object","properties":{}}`, s.getStatus)
	s.add("set_power", "Switch the air conditioner on or off.",
		`{"type":"object","properties":{"on":{"type":"boolean"}},"required":["on"]}`, s.setPower)
	s.add("set_mode", "Change the operating mode.",
		fmt.Sprintf(`{"type":"object","properties":{"mode":{"type":"string","enum":%s}},"required":["mode"]}`, names(ac.Modes())),
		s.setMode)
	s.add("set_temperature", "Set the target temperature in degrees Celsius.",
		fmt.Sprintf(`{"type":"object","properties":{"celsius":{"type":"integer","minimum":%d,"maximum":%d}},"required":["celsius"]}`, ac.MinTemperature, ac.MaxTemperature),
		s.setTemperature)
	s.add("set_fan_speed", "Change the fan speed.",
		fmt.Sprintf(`{"type":"object","properties":{"speed":{"type":"string","enum":%s}},"required":["speed"]}`, names(ac.FanSpeeds())),
		s.setFanSpeed)

	return s
}

// Serve reads requests from in and writes responses to out until ctx is
// cancelled or the transport closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.run(ctx, &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	})
}

func (s *Server) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *Server) add(name, description, schema string, h handler) {
	s.server.AddTool(&mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: json.RawMessage(schema),
	}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.Params.Arguments
		if args == nil {
			args = json.RawMessage("{}")
		}
		text, err := h(ctx, args)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

func (s *Server) getStatus(ctx context.Context, _ json.RawMessage) (string, error) {
	st, err := s.ac.Fetch(ctx)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Server) setPower(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		On *bool `json:"on"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if in.On == nil {
		return "", fmt.Errorf("missing argument: on")
	}
	return result(s.ac.SetPower(ctx, *in.On))
}

func (s *Server) setMode(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Mode string `json:"mode"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	mode, err := ac.ParseMode(in.Mode)
	if err != nil {
		return "", err
	}
	return result(s.ac.SetMode(ctx, mode))
}

func (s *Server) setTemperature(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Celsius *int `json:"celsius"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if in.Celsius == nil {
		return "", fmt.Errorf("missing argument: celsius")
	}
	return result(s.ac.SetTemperature(ctx, *in.Celsius))
}

func (s *Server) setFanSpeed(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Speed string `json:"speed"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	speed, err := ac.ParseFanSpeed(in.Speed)
	if err != nil {
		return "", err
	}
	return result(s.ac.SetFanSpeed(ctx, speed))
}

func decodeArgs(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func result(res internal.UpdateResult, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("accepted (HTTP %d)", res.StatusCode), nil
}

func names[T fmt.Stringer](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	b, _ := json.Marshal(out)
	return string(b)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
