package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wabble-server/internal/config"
	"github.com/vovakirdan/wabble-server/internal/core"
	"github.com/vovakirdan/wabble-server/internal/proto"
)

func startTestServer(t *testing.T) (*httptest.Server, *core.Registry) {
	t.Helper()

	reg := core.NewRegistry()
	reg.SeedDefaults()

	logger := zerolog.Nop()
	server := NewServer(reg, config.Default(), &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, reg
}

func wsAddr(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dialWS(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

func sendEnvelope(t *testing.T, ctx context.Context, conn *websocket.Conn, opcode string, payload any) {
	t.Helper()

	env := proto.Envelope{Opcode: opcode}
	if payload != nil {
		var err error
		env, err = proto.NewEnvelope(opcode, payload)
		require.NoError(t, err)
	}
	require.NoError(t, wsjson.Write(ctx, conn, env))
}

func readEnvelope(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Envelope {
	t.Helper()

	var env proto.Envelope
	require.NoError(t, wsjson.Read(ctx, conn, &env))
	return env
}

func readHandshake(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Handshake {
	t.Helper()

	env := readEnvelope(t, ctx, conn)
	require.Equal(t, proto.OpcodeHandshake, env.Opcode)

	var hs proto.Handshake
	require.NoError(t, json.Unmarshal(env.Data, &hs))
	return hs
}

func readEcho(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.EchoMessage {
	t.Helper()

	env := readEnvelope(t, ctx, conn)
	require.Equal(t, proto.OpcodeEchoMessage, env.Opcode)

	var echo proto.EchoMessage
	require.NoError(t, json.Unmarshal(env.Data, &echo))
	return echo
}

// waitForEcho reads frames until one matches pred.
func waitForEcho(t *testing.T, ctx context.Context, conn *websocket.Conn, pred func(proto.EchoMessage) bool) proto.EchoMessage {
	t.Helper()

	for {
		echo := readEcho(t, ctx, conn)
		if pred(echo) {
			return echo
		}
	}
}

func strptr(s string) *string { return &s }
