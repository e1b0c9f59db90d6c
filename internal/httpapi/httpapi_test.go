package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Thechi2000/were-legends/internal/game"
	"github.com/Thechi2000/were-legends/internal/hub"
	"github.com/Thechi2000/were-legends/internal/session"
	"github.com/Thechi2000/were-legends/pkg/types"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testServer struct {
	t     *testing.T
	srv   *httptest.Server
	clock *clock
}

func newTestServer(t *testing.T, longPoll time.Duration) *testServer {
	t.Helper()
	log := zaptest.NewLogger(t)
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}

	opts := game.DefaultOptions()
	opts.Logger = log
	opts.Now = c.Now
	opts.FeedInterval = 0

	h := hub.NewHub(context.Background(), opts)
	t.Cleanup(h.Shutdown)

	handler := SetupRoutes(h, session.NewIssuer([]byte("test")), log, Options{
		BaseURI:         "/api",
		LongPollTimeout: longPoll,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, clock: c}
}

// do sends body (if any) as JSON and returns the status and raw response.
func (ts *testServer) do(method, path, token string, body any) (int, []byte) {
	ts.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	require.NoError(ts.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(ts.t, err)
	return resp.StatusCode, out
}

func (ts *testServer) login(name string) string {
	ts.t.Helper()
	status, body := ts.do(http.MethodPost, "/api/login", "", map[string]string{"name": name})
	require.Equal(ts.t, http.StatusOK, status, string(body))
	var resp loginResponse
	require.NoError(ts.t, json.Unmarshal(body, &resp))
	require.NotEmpty(ts.t, resp.Token)
	return resp.Token
}

func (ts *testServer) updates(token string) []types.Directive {
	ts.t.Helper()
	status, body := ts.do(http.MethodGet, "/api/updates", token, nil)
	require.Equal(ts.t, http.StatusOK, status, string(body))
	var out []types.Directive
	require.NoError(ts.t, json.Unmarshal(body, &out))
	return out
}

func requireError(t *testing.T, wantStatus int, wantCode string, status int, body []byte) {
	t.Helper()
	require.Equal(t, wantStatus, status, string(body))
	assert.JSONEq(t, `{"error":"`+wantCode+`"}`, string(body))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, 0)
	status, _ := ts.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, 0)

	status, body := ts.do(http.MethodPost, "/api/login", "", map[string]string{"name": ""})
	requireError(t, http.StatusBadRequest, "invalid_name", status, body)

	status, body = ts.do(http.MethodPost, "/api/login", "", map[string]string{"name": "abcdefghijklmnopq"})
	requireError(t, http.StatusBadRequest, "invalid_name", status, body)

	token := ts.login("ahri")
	assert.Equal(t, []types.Directive{types.Hi()}, ts.updates(token))
	assert.Empty(t, ts.updates(token))

	again := ts.login("ahri")
	assert.Empty(t, ts.updates(again), "second login keeps the drained mailbox")
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, 0)

	status, body := ts.do(http.MethodGet, "/api/updates", "", nil)
	requireError(t, http.StatusForbidden, "unauthorized", status, body)

	status, body = ts.do(http.MethodPost, "/api/game", "garbage", nil)
	requireError(t, http.StatusForbidden, "unauthorized", status, body)
}

func TestUpdates_NoMailbox(t *testing.T) {
	ts := newTestServer(t, 0)
	token, err := session.NewIssuer([]byte("test")).Issue("ghost")
	require.NoError(t, err)

	status, body := ts.do(http.MethodGet, "/api/updates", token, nil)
	requireError(t, http.StatusNotFound, "not_found", status, body)
}

func TestUpdates_LongPoll(t *testing.T) {
	ts := newTestServer(t, time.Second)
	host := ts.login("ahri")
	ts.updates(host)

	done := make(chan []types.Directive, 1)
	go func() {
		status, body := ts.do(http.MethodGet, "/api/updates?wait=1s", host, nil)
		var out []types.Directive
		if status == http.StatusOK {
			_ = json.Unmarshal(body, &out)
		}
		done <- out
	}()

	time.Sleep(50 * time.Millisecond)
	status, body := ts.do(http.MethodPost, "/api/game", host, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	select {
	case got := <-done:
		assert.Equal(t, []types.Directive{types.PlayerJoin("ahri")}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("long poll did not return")
	}
}

func TestUpdates_LongPollTimesOutEmpty(t *testing.T) {
	ts := newTestServer(t, 50*time.Millisecond)
	token := ts.login("ahri")
	ts.updates(token)

	start := time.Now()
	status, body := ts.do(http.MethodGet, "/api/updates?wait=10s", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
	assert.Less(t, time.Since(start), 5*time.Second, "wait is capped")
}

func TestFullGame(t *testing.T) {
	ts := newTestServer(t, 0)
	names := []string{"n1", "n2", "n3", "n4", "n5"}
	tokens := map[string]string{}
	for _, n := range names {
		tokens[n] = ts.login(n)
	}

	status, body := ts.do(http.MethodPost, "/api/game", tokens["n1"], nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var created createGameResponse
	require.NoError(t, json.Unmarshal(body, &created))

	status, body = ts.do(http.MethodPost, "/api/game", tokens["n1"], nil)
	requireError(t, http.StatusBadRequest, "already_in_game", status, body)

	status, body = ts.do(http.MethodPost, "/api/game/start", tokens["n1"], nil)
	requireError(t, http.StatusBadRequest, "not_enough_players", status, body)

	for _, n := range names[1:] {
		status, body = ts.do(http.MethodPost, "/api/game/"+created.UUID+"/join", tokens[n], nil)
		require.Equal(t, http.StatusNoContent, status, string(body))
	}

	late := ts.login("late")
	status, body = ts.do(http.MethodPost, "/api/game/"+created.UUID+"/join", late, nil)
	requireError(t, http.StatusBadRequest, "max_player_reached", status, body)

	// every member sees Hi then the five joins in order
	wantJoins := []types.Directive{types.Hi()}
	for _, n := range names {
		wantJoins = append(wantJoins, types.PlayerJoin(n))
	}
	for _, n := range names {
		assert.Equal(t, wantJoins, ts.updates(tokens[n]), "mailbox of %s", n)
	}

	status, _ = ts.do(http.MethodPost, "/api/game/start", tokens["n2"], nil)
	require.Equal(t, http.StatusNoContent, status)

	roles := map[string]types.Role{}
	for _, n := range names {
		got := ts.updates(tokens[n])
		require.NotEmpty(t, got)
		require.Equal(t, types.KindRole, got[0].Kind)
		roles[n] = got[0].Role
	}

	status, body = ts.do(http.MethodPost, "/api/game/quit", tokens["n3"], nil)
	requireError(t, http.StatusBadRequest, "incorrect_state", status, body)

	status, _ = ts.do(http.MethodPost, "/api/game/start", tokens["n1"], nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = ts.do(http.MethodPost, "/api/game/end", tokens["n1"], nil)
	requireError(t, http.StatusBadRequest, "incorrect_state", status, body)

	status, body = ts.do(http.MethodPost, "/api/game/update", tokens["n1"], map[string]float64{"game_time": 30})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"applied":true}`, string(body))

	for _, stale := range []float64{30, 12} {
		status, body = ts.do(http.MethodPost, "/api/game/update", tokens["n2"], map[string]float64{"game_time": stale})
		require.Equal(t, http.StatusOK, status, string(body))
		assert.JSONEq(t, `{"applied":false}`, string(body), "game_time %v", stale)
	}

	ts.clock.Advance(11 * time.Second)
	status, _ = ts.do(http.MethodPost, "/api/game/end", tokens["n1"], nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = ts.do(http.MethodPost, "/api/game/update", tokens["n1"], map[string]float64{"game_time": 40})
	requireError(t, http.StatusBadRequest, "incorrect_state", status, body)

	for i, n := range names {
		ballot := types.Ballot{}
		for _, other := range names {
			if other != n {
				ballot[other] = roles[other]
			}
		}
		status, body = ts.do(http.MethodPost, "/api/game/votes", tokens[n], ballot)
		require.Equal(t, http.StatusNoContent, status, string(body))

		if i == 0 {
			status, body = ts.do(http.MethodPost, "/api/game/votes", tokens[n], ballot)
			requireError(t, http.StatusBadRequest, "votes_closed", status, body)
		}
	}

	status, body = ts.do(http.MethodGet, "/api/game/"+created.UUID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var public types.GameStatus
	require.NoError(t, json.Unmarshal(body, &public))
	assert.Equal(t, created.UUID, public.UID)
	assert.Equal(t, names, public.PlayerNames)
	assert.Equal(t, types.StateEnd, public.State.Name)
	assert.Equal(t, roles, public.State.Roles)
	for _, n := range names {
		assert.Equal(t, 4, public.State.Scores[n], "score of %s", n)
	}

	status, body = ts.do(http.MethodGet, "/api/game", tokens["n4"], nil)
	require.Equal(t, http.StatusOK, status)
	var mine types.AuthenticatedGameStatus
	require.NoError(t, json.Unmarshal(body, &mine))
	require.NotNil(t, mine.PlayerState)
	assert.Equal(t, roles["n4"], mine.PlayerState.Class)

	status, body = ts.do(http.MethodGet, "/api/game/"+created.UUID, late, nil)
	requireError(t, http.StatusForbidden, "unauthorized", status, body)

	for _, n := range names {
		status, body = ts.do(http.MethodPost, "/api/game/quit", tokens[n], nil)
		require.Equal(t, http.StatusNoContent, status, string(body))
	}
	status, body = ts.do(http.MethodGet, "/api/game/"+created.UUID, "", nil)
	requireError(t, http.StatusNotFound, "not_found", status, body)
}

func TestQuitInSetupDisposesGame(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.login("solo")

	status, body := ts.do(http.MethodPost, "/api/game/quit", token, nil)
	requireError(t, http.StatusBadRequest, "not_in_game", status, body)

	status, body = ts.do(http.MethodPost, "/api/game", token, nil)
	require.Equal(t, http.StatusOK, status)
	var created createGameResponse
	require.NoError(t, json.Unmarshal(body, &created))

	status, _ = ts.do(http.MethodPost, "/api/game/quit", token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = ts.do(http.MethodGet, "/api/game/"+created.UUID, "", nil)
	requireError(t, http.StatusNotFound, "not_found", status, body)

	status, body = ts.do(http.MethodGet, "/api/game", token, nil)
	requireError(t, http.StatusNotFound, "not_found", status, body)
}

func TestGameStatus_BadID(t *testing.T) {
	ts := newTestServer(t, 0)
	status, body := ts.do(http.MethodGet, "/api/game/not-a-uuid", "", nil)
	requireError(t, http.StatusNotFound, "not_found", status, body)

	token := ts.login("ahri")
	status, body = ts.do(http.MethodPost, "/api/game/00000000-0000-0000-0000-000000000000/join", token, nil)
	requireError(t, http.StatusNotFound, "not_found", status, body)
}

func TestVote_RejectsUnknownRole(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.login("ahri")

	status, body := ts.do(http.MethodPost, "/api/game/votes", token, map[string]string{"lux": "wizard"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"bad_request","msg":"unknown role for lux"}`, string(body))

	status, body = ts.do(http.MethodPost, "/api/game/votes", token, map[string]string{"lux": "crook"})
	requireError(t, http.StatusBadRequest, "not_in_game", status, body)
}

func TestJoinGame_OneGamePerPlayer(t *testing.T) {
	ts := newTestServer(t, 0)
	ahri, braum := ts.login("ahri"), ts.login("braum")

	status, body := ts.do(http.MethodPost, "/api/game", ahri, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var first createGameResponse
	require.NoError(t, json.Unmarshal(body, &first))

	status, body = ts.do(http.MethodPost, "/api/game", braum, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var second createGameResponse
	require.NoError(t, json.Unmarshal(body, &second))

	status, body = ts.do(http.MethodPost, "/api/game/"+second.UUID+"/join", ahri, nil)
	requireError(t, http.StatusBadRequest, "already_in_game", status, body)

	status, body = ts.do(http.MethodGet, "/api/game/"+second.UUID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var public types.GameStatus
	require.NoError(t, json.Unmarshal(body, &public))
	assert.Equal(t, []string{"braum"}, public.PlayerNames)
}
