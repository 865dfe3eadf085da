package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/memoriagame/memoria/internal/factory"
	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/storage"
	"github.com/memoriagame/memoria/internal/testutil"
)

// wireFrame mirrors the websocket frame shape for both directions
type wireFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// APISuite exercises the full stack over real HTTP and websocket
// connections.
type APISuite struct {
	suite.Suite
	server *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	s.Require().NoError(err)
	s.Require().NoError(storage.Seed(context.Background(), app.Registry, bcrypt.MinCost))

	router := NewRouter(RouterConfig{
		Logger:  testutil.NopLogger(),
		Gateway: app.Gateway,
	})
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *APISuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	s.T().Cleanup(func() { conn.Close() })
	return conn
}

func (s *APISuite) send(conn *websocket.Conn, action string, data any) {
	frame := map[string]any{"type": action}
	if data != nil {
		frame["data"] = data
	}
	raw, err := json.Marshal(frame)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, raw))
}

// waitFor reads frames until one of the wanted type arrives
func (s *APISuite) waitFor(conn *websocket.Conn, frameType string) wireFrame {
	deadline := time.Now().Add(2 * time.Second)
	s.Require().NoError(conn.SetReadDeadline(deadline))
	for {
		_, raw, err := conn.ReadMessage()
		s.Require().NoError(err)
		var frame wireFrame
		s.Require().NoError(json.Unmarshal(raw, &frame))
		if frame.Type == frameType {
			return frame
		}
	}
}

func (s *APISuite) TestRootLiveness() {
	resp, err := http.Get(s.server.URL + "/")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), "running")
}

func (s *APISuite) TestHealthz() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))
}

func (s *APISuite) TestWebsocketTestProbe() {
	conn := s.dial()
	s.send(conn, "test", nil)

	frame := s.waitFor(conn, "testResponse")
	s.Contains(string(frame.Data), "test successful")
}

func (s *APISuite) TestWebsocketLoginAndJoinFlow() {
	conn := s.dial()

	s.send(conn, "login", map[string]string{"username": "jugador1", "password": "clave1"})
	loginFrame := s.waitFor(conn, "loginResponse")

	var login struct {
		Success bool         `json:"success"`
		UserID  model.UserID `json:"userId"`
		Score   int          `json:"score"`
	}
	s.Require().NoError(json.Unmarshal(loginFrame.Data, &login))
	s.True(login.Success)
	s.Equal(model.UserID("1"), login.UserID)
	s.Equal(5000, login.Score)

	s.send(conn, "joinGame", nil)
	stateFrame := s.waitFor(conn, "gameState")

	var snap model.Snapshot
	s.Require().NoError(json.Unmarshal(stateFrame.Data, &snap))
	s.Equal(model.GameStatusPlaying, snap.Status)
	s.Len(snap.Board, model.BoardSize)
	s.Require().NotNil(snap.CurrentPlayer)
	s.Equal(model.UserID("1"), snap.CurrentPlayer.ID)
}

func (s *APISuite) TestWebsocketSelectTileFlow() {
	conn := s.dial()

	s.send(conn, "login", map[string]string{"username": "jugador2", "password": "clave2"})
	s.waitFor(conn, "loginResponse")
	s.send(conn, "joinGame", nil)
	s.waitFor(conn, "gameState")

	s.send(conn, "selectTile", map[string]int{"tileIndex": 4})

	ackFrame := s.waitFor(conn, "tileSelectResponse")
	var ack struct {
		Received  bool `json:"received"`
		TileIndex int  `json:"tileIndex"`
	}
	s.Require().NoError(json.Unmarshal(ackFrame.Data, &ack))
	s.True(ack.Received)
	s.Equal(4, ack.TileIndex)

	selectedFrame := s.waitFor(conn, "tileSelected")
	var selected model.TileSelectedPayload
	s.Require().NoError(json.Unmarshal(selectedFrame.Data, &selected))
	s.Equal(4, selected.TileIndex)
	s.Equal(model.UserID("2"), selected.PlayerID)
	s.Equal(5000+selected.TileValue, selected.NewScore)
}

func (s *APISuite) TestWebsocketAdminFlow() {
	conn := s.dial()

	s.send(conn, "login", map[string]string{"username": "admin", "password": "admin123"})
	s.waitFor(conn, "loginResponse")

	s.send(conn, "getPlayers", nil)
	playersFrame := s.waitFor(conn, "getPlayersResponse")

	var ack struct {
		Success bool                `json:"success"`
		Players []model.RosterEntry `json:"players"`
	}
	s.Require().NoError(json.Unmarshal(playersFrame.Data, &ack))
	s.True(ack.Success)
	s.Len(ack.Players, 10)
}
