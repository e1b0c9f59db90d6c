package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Thechi2000/were-legends/internal/game"
	"github.com/Thechi2000/were-legends/internal/hub"
	"github.com/Thechi2000/were-legends/internal/session"
	"github.com/Thechi2000/were-legends/internal/types"
	wire "github.com/Thechi2000/were-legends/pkg/types"
)

func setup(t *testing.T) (*hub.Hub, *session.Issuer, *httptest.Server) {
	t.Helper()
	log := zaptest.NewLogger(t)
	opts := game.DefaultOptions()
	opts.Logger = log
	opts.FeedInterval = 0

	h := hub.NewHub(context.Background(), opts)
	t.Cleanup(h.Shutdown)
	iss := session.NewIssuer([]byte("ws-secret"))

	srv := httptest.NewServer(Handler(h, iss, log))
	t.Cleanup(srv.Close)
	return h, iss, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
}

func readFrame(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandler_StreamsMailbox(t *testing.T) {
	h, iss, srv := setup(t)
	mb := h.GetOrCreateMailbox("ahri")
	token, err := iss.Issue("ahri")
	require.NoError(t, err)

	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	first := readFrame(t, conn)
	assert.Equal(t, types.FrameDirectives, first.Type)
	assert.Equal(t, []wire.Directive{wire.Hi()}, first.Directives)

	mb.Push(wire.PlayerJoin("lux"))
	second := readFrame(t, conn)
	assert.Equal(t, []wire.Directive{wire.PlayerJoin("lux")}, second.Directives)
	assert.Zero(t, mb.Len(), "streamed directives are drained")
}

func TestHandler_RejectsBadToken(t *testing.T) {
	_, _, srv := setup(t)

	resp, err := http.Get(srv.URL + "?token=nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHandler_UnknownMailbox(t *testing.T) {
	_, iss, srv := setup(t)
	token, err := iss.Issue("ghost")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "?token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
