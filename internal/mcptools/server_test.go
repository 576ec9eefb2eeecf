package mcptools

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
)

type fakeController struct {
	status *ac.Status
	calls  []string
}

func (f *fakeController) Fetch(context.Context) (*ac.Status, error) {
	f.calls = append(f.calls, "fetch")
	if f.status == nil {
		return nil, internal.ErrInvalidDevice
	}
	return f.status, nil
}

func (f *fakeController) SetPower(_ context.Context, on bool) (internal.UpdateResult, error) {
	f.calls = append(f.calls, "power")
	return internal.UpdateResult{Accepted: true, StatusCode: 200}, nil
}

func (f *fakeController) SetMode(_ context.Context, mode ac.Mode) (internal.UpdateResult, error) {
	f.calls = append(f.calls, "mode:"+mode.String())
	return internal.UpdateResult{Accepted: true, StatusCode: 200}, nil
}

func (f *fakeController) SetTemperature(_ context.Context, celsius int) (internal.UpdateResult, error) {
	if celsius < ac.MinTemperature || celsius > ac.MaxTemperature {
		return internal.UpdateResult{}, &internal.ValidationError{Field: "temperature", Value: celsius, Reason: "out of range"}
	}
	f.calls = append(f.calls, "temp")
	return internal.UpdateResult{Accepted: true, StatusCode: 200}, nil
}

func (f *fakeController) SetFanSpeed(_ context.Context, speed ac.FanSpeed) (internal.UpdateResult, error) {
	f.calls = append(f.calls, "fan:"+speed.String())
	return internal.UpdateResult{Accepted: true, StatusCode: 200}, nil
}

func setupTestClient(t *testing.T, controller Controller) *mcp.ClientSession {
	t.Helper()

	s := New("tclctl-test", "0.0.0", controller)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- s.run(ctx, serverTransport)
	}()
	t.Cleanup(func() {
		cancel()
		<-serverDone
	})

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func callText(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text, res.IsError
}

func TestListTools(t *testing.T) {
	session := setupTestClient(t, &fakeController{})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var got []string
	for _, tool := range res.Tools {
		got = append(got, tool.Name)
	}
	assert.ElementsMatch(t, []string{"get_status", "set_power", "set_mode", "set_temperature", "set_fan_speed"}, got)
}

func TestGetStatus(t *testing.T) {
	ctrl := &fakeController{status: &ac.Status{DeviceID: "dev1", Power: true, Mode: ac.ModeCool, TargetTemperature: 23, FanSpeed: ac.FanLow}}
	session := setupTestClient(t, ctrl)

	text, isErr := callText(t, session, "get_status", nil)
	assert.False(t, isErr)
	assert.JSONEq(t, `{"device_id":"dev1","power":true,"mode":"cool","target_temperature":23,"current_temperature":0,"fan_speed":"low"}`, text)
}

func TestSetters(t *testing.T) {
	ctrl := &fakeController{}
	session := setupTestClient(t, ctrl)

	text, isErr := callText(t, session, "set_power", map[string]any{"on": true})
	assert.False(t, isErr)
	assert.Equal(t, "accepted (HTTP 200)", text)

	_, isErr = callText(t, session, "set_mode", map[string]any{"mode": "heat"})
	assert.False(t, isErr)
	_, isErr = callText(t, session, "set_fan_speed", map[string]any{"speed": "quiet"})
	assert.False(t, isErr)
	_, isErr = callText(t, session, "set_temperature", map[string]any{"celsius": 21})
	assert.False(t, isErr)

	assert.Equal(t, []string{"power", "mode:heat", "fan:quiet", "temp"}, ctrl.calls)
}

func TestToolErrorsAreResults(t *testing.T) {
	ctrl := &fakeController{}
	session := setupTestClient(t, ctrl)

	text, isErr := callText(t, session, "set_mode", map[string]any{"mode": "boost"})
	assert.True(t, isErr)
	assert.Contains(t, text, "unknown mode")

	text, isErr = callText(t, session, "set_temperature", map[string]any{"celsius": 40})
	assert.True(t, isErr)
	assert.Contains(t, text, "temperature")

	text, isErr = callText(t, session, "get_status", nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid device")

	assert.Equal(t, []string{"fetch"}, ctrl.calls)
}
