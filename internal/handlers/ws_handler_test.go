package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fast-vote-api/internal/database"
	"fast-vote-api/internal/models"
	"fast-vote-api/internal/realtime"
	"fast-vote-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newWsServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/poll/:id", PollWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, pollID string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/poll/" + pollID
}

func waitForSubscribers(t *testing.T, pollID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if LiveHub.SubscriberCount(pollID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("poll %s never reached %d subscribers", pollID, want)
}

func TestPollWebSocket_UnknownPollRejected(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	LiveHub = realtime.NewHub(DBPollFinder())

	srv := newWsServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "no-such-poll"), nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	require.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	require.Equal(t, 0, LiveHub.SubscriberCount("no-such-poll"))
}

func TestPollWebSocket_ReceivesTallyAfterVote(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	LiveHub = realtime.NewHub(DBPollFinder())

	poll, options, err := testutil.SeedPoll(db, "owner", "Q?", "A", "B")
	require.NoError(t, err)

	srv := newWsServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, poll.ID), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForSubscribers(t, poll.ID, 1)

	voter := newVoteRouter(t, "s1")
	w := postVote(voter, options[0].ID)
	require.Equal(t, 201, w.Code)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt models.VoteEvent
	require.NoError(t, json.Unmarshal(raw, &evt))
	require.Equal(t, models.EventPollVote, evt.Type)
	require.Len(t, evt.Payload, 2)
	require.EqualValues(t, 1, evt.Payload[0].Votes)
	require.EqualValues(t, 0, evt.Payload[1].Votes)
}

func TestPollWebSocket_DisconnectReleasesSubscription(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	LiveHub = realtime.NewHub(DBPollFinder())

	poll, _, err := testutil.SeedPoll(db, "owner", "Q?", "A", "B")
	require.NoError(t, err)

	srv := newWsServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, poll.ID), nil)
	require.NoError(t, err)
	waitForSubscribers(t, poll.ID, 1)

	require.NoError(t, conn.Close())
	waitForSubscribers(t, poll.ID, 0)
}
