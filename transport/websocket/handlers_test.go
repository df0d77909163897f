package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/markboard-backend/internal/entity"
	"github.com/rocketscienceinc/markboard-backend/internal/repository"
	"github.com/rocketscienceinc/markboard-backend/internal/usecase"
)

// newTestServer wires the handlers to a real board manager over the in-memory
// session store.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewBoardManager(logger, repository.NewMemorySessionRepository())

	return New(logger, manager)
}

func mustPayload(t *testing.T, payload Payload) json.RawMessage {
	t.Helper()

	b, err := json.Marshal(payload)
	require.NoError(t, err)

	return b
}

// decodeResponse reads one response frame and unpacks its message envelope.
func decodeResponse(t *testing.T, server *Server, bufrw *bufio.ReadWriter) (string, Payload) {
	t.Helper()

	respBytes, err := server.readRequest(bufrw)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(respBytes, &msg))

	var payload Payload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return msg.Action, payload
}

func connectSession(t *testing.T, ctx context.Context, server *Server, bufrw *bufio.ReadWriter) *entity.Session {
	t.Helper()

	require.NoError(t, server.handleConnect(ctx, &Message{Action: actionConnect}, bufrw))

	_, payload := decodeResponse(t, server, bufrw)
	require.NotNil(t, payload.Session)

	return payload.Session
}

func TestHandleConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a session with an empty board on first contact", func(t *testing.T) {
		// Given: a server and a connection without any session
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()

		// When: the view connects with no payload
		err := server.handleConnect(ctx, &Message{Action: actionConnect}, bufrw)
		require.NoError(t, err)

		// Then: the response carries a fresh session and nine empty render cells
		action, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, actionConnect, action)

		require.NotNil(t, payload.Session)
		assert.NotEmpty(t, payload.Session.ID)
		assert.Equal(t, entity.NewBoard(), payload.Session.Board)

		require.Len(t, payload.Cells, 9)
		for _, cell := range payload.Cells {
			assert.True(t, cell.Empty)
		}
	})

	t.Run("Returns the stored session on reconnect", func(t *testing.T) {
		// Given: a connected session with one marked cell
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()
		session := connectSession(t, ctx, server, bufrw)

		cell := 4
		markMsg := &Message{
			Action:  actionBoardMark,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}, Cell: &cell}),
		}
		require.NoError(t, server.handleBoardMark(ctx, markMsg, bufrw))
		decodeResponse(t, server, bufrw)

		// When: the view reconnects with its session ID
		connectMsg := &Message{
			Action:  actionConnect,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}}),
		}
		require.NoError(t, server.handleConnect(ctx, connectMsg, bufrw))

		// Then: the same session comes back with its board intact
		_, payload := decodeResponse(t, server, bufrw)
		require.NotNil(t, payload.Session)
		assert.Equal(t, session.ID, payload.Session.ID)
		assert.Equal(t, entity.MarkX, payload.Session.Board[4])
	})
}

func TestHandleBoardMark(t *testing.T) {
	ctx := context.Background()

	t.Run("Marks a cell and returns the updated board", func(t *testing.T) {
		// Given: a connected session
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()
		session := connectSession(t, ctx, server, bufrw)

		// When: the view clicks cell 4
		cell := 4
		msg := &Message{
			Action:  actionBoardMark,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}, Cell: &cell}),
		}
		require.NoError(t, server.handleBoardMark(ctx, msg, bufrw))

		// Then: the response board and render cells carry the mark
		action, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, actionBoardMark, action)

		require.NotNil(t, payload.Session)
		assert.Equal(t, entity.MarkX, payload.Session.Board[4])

		require.Len(t, payload.Cells, 9)
		assert.Equal(t, entity.MarkX, payload.Cells[4].Symbol)
		assert.False(t, payload.Cells[4].Empty)
	})

	t.Run("Marking the same cell again keeps it marked", func(t *testing.T) {
		// Given: a connected session with cell 0 already marked
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()
		session := connectSession(t, ctx, server, bufrw)

		cell := 0
		msg := &Message{
			Action:  actionBoardMark,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}, Cell: &cell}),
		}
		require.NoError(t, server.handleBoardMark(ctx, msg, bufrw))
		decodeResponse(t, server, bufrw)

		// When: the view clicks cell 0 again
		require.NoError(t, server.handleBoardMark(ctx, msg, bufrw))

		// Then: the overwrite succeeds and the cell still holds X
		_, payload := decodeResponse(t, server, bufrw)
		assert.Empty(t, payload.Error)
		require.NotNil(t, payload.Session)
		assert.Equal(t, entity.MarkX, payload.Session.Board[0])
	})

	t.Run("Requires a cell index", func(t *testing.T) {
		// Given: a connected session
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()
		session := connectSession(t, ctx, server, bufrw)

		// When: the mark request carries no cell
		msg := &Message{
			Action:  actionBoardMark,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}}),
		}
		require.NoError(t, server.handleBoardMark(ctx, msg, bufrw))

		// Then: an error payload is returned
		_, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, "cell is required", payload.Error)
	})

	t.Run("Rejects cells outside the grid", func(t *testing.T) {
		// Given: a connected session
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()
		session := connectSession(t, ctx, server, bufrw)

		for _, cell := range []int{-1, 9} {
			// When: the view clicks a cell outside the grid
			msg := &Message{
				Action:  actionBoardMark,
				Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}, Cell: &cell}),
			}
			require.NoError(t, server.handleBoardMark(ctx, msg, bufrw))

			// Then: an error payload is returned
			_, payload := decodeResponse(t, server, bufrw)
			assert.Contains(t, payload.Error, "out of range")
		}

		// And: the board is still empty
		stateMsg := &Message{
			Action:  actionBoardState,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}}),
		}
		require.NoError(t, server.handleBoardState(ctx, stateMsg, bufrw))

		_, payload := decodeResponse(t, server, bufrw)
		require.NotNil(t, payload.Session)
		assert.Equal(t, entity.NewBoard(), payload.Session.Board)
	})

	t.Run("Rejects an unknown session", func(t *testing.T) {
		// Given: a server without any sessions
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()

		// When: a mark arrives for a session that does not exist
		cell := 1
		msg := &Message{
			Action:  actionBoardMark,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: "ghost"}, Cell: &cell}),
		}
		require.NoError(t, server.handleBoardMark(ctx, msg, bufrw))

		// Then: an error payload is returned
		_, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, "session doesn't exist", payload.Error)
	})
}

func TestHandleBoardState(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the current board for re-rendering", func(t *testing.T) {
		// Given: a connected session with cell 8 marked
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()
		session := connectSession(t, ctx, server, bufrw)

		cell := 8
		markMsg := &Message{
			Action:  actionBoardMark,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}, Cell: &cell}),
		}
		require.NoError(t, server.handleBoardMark(ctx, markMsg, bufrw))
		decodeResponse(t, server, bufrw)

		// When: the view pulls the board state
		stateMsg := &Message{
			Action:  actionBoardState,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}}),
		}
		require.NoError(t, server.handleBoardState(ctx, stateMsg, bufrw))

		// Then: the current board and its render cells come back
		action, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, actionBoardState, action)
		require.NotNil(t, payload.Session)
		assert.Equal(t, entity.MarkX, payload.Session.Board[8])
		assert.Equal(t, entity.MarkX, payload.Cells[8].Symbol)
	})

	t.Run("Rejects an unknown session", func(t *testing.T) {
		// Given: a server without any sessions
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()

		// When: a state pull arrives for a session that does not exist
		msg := &Message{
			Action:  actionBoardState,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: "ghost"}}),
		}
		require.NoError(t, server.handleBoardState(ctx, msg, bufrw))

		// Then: an error payload is returned
		_, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, "session doesn't exist", payload.Error)
	})
}

func TestHandleSessionLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("Ends the session and discards its board", func(t *testing.T) {
		// Given: a connected session
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()
		session := connectSession(t, ctx, server, bufrw)

		// When: the view leaves
		leaveMsg := &Message{
			Action:  actionSessionLeave,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}}),
		}
		require.NoError(t, server.handleSessionLeave(ctx, leaveMsg, bufrw))

		// Then: the leave is acknowledged without error
		action, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, actionSessionLeave, action)
		assert.Empty(t, payload.Error)

		// And: the session is gone
		stateMsg := &Message{
			Action:  actionBoardState,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: session.ID}}),
		}
		require.NoError(t, server.handleBoardState(ctx, stateMsg, bufrw))

		_, payload = decodeResponse(t, server, bufrw)
		assert.Equal(t, "session doesn't exist", payload.Error)
	})

	t.Run("Rejects an unknown session", func(t *testing.T) {
		// Given: a server without any sessions
		server := newTestServer(t)
		_, bufrw := newTestReadWriter()

		// When: a leave arrives for a session that does not exist
		msg := &Message{
			Action:  actionSessionLeave,
			Payload: mustPayload(t, Payload{Session: &entity.Session{ID: "ghost"}}),
		}
		require.NoError(t, server.handleSessionLeave(ctx, msg, bufrw))

		// Then: an error payload is returned
		_, payload := decodeResponse(t, server, bufrw)
		assert.Equal(t, "session doesn't exist", payload.Error)
	})
}
