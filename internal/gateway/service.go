package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/services/admin"
	"github.com/memoriagame/memoria/internal/services/auth"
	"github.com/memoriagame/memoria/internal/services/game"
	"github.com/memoriagame/memoria/internal/storage"
)

// Gateway maps live connections to authenticated users and dispatches
// inbound actions to the scheduler and admin services. Malformed or
// out-of-turn gameplay actions are logged and dropped without any error
// reaching the client; admin and login failures are acknowledged with
// success=false payloads.
type Gateway struct {
	hub       *Hub
	registry  storage.Registry
	auth      *auth.Service
	scheduler *game.Scheduler
	admin     *admin.Service
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// New creates a new Gateway
func New(
	hub *Hub,
	registry storage.Registry,
	authService *auth.Service,
	scheduler *game.Scheduler,
	adminService *admin.Service,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		hub:       hub,
		registry:  registry,
		auth:      authService,
		scheduler: scheduler,
		admin:     adminService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checking is delegated to the deployment layer
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "gateway")),
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and starts
// the client pumps.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(uuid.New().String(), conn)
	g.hub.Add(client)

	go client.writePump()
	go client.readPump(g)
}

// Dispatch routes one inbound frame from a client.
func (g *Gateway) Dispatch(c *Client, raw []byte) {
	ctx := context.Background()

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		g.logger.Warn("malformed frame dropped",
			slog.String("conn_id", c.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	switch req.Type {
	case ActionTest:
		g.hub.SendToConn(c.ID, eventTestResponse, map[string]string{"message": "test successful"})
	case ActionLogin:
		g.handleLogin(ctx, c, req.Data)
	case ActionJoinGame:
		g.handleJoinGame(ctx, c)
	case ActionSelectTile:
		g.handleSelectTile(ctx, c, req.Data)
	case ActionGetPlayers:
		g.handleGetPlayers(ctx, c)
	case ActionUpdatePoints:
		g.handleUpdatePoints(ctx, c, req.Data)
	case ActionToggleBlockUser:
		g.handleToggleBlockUser(ctx, c, req.Data)
	case ActionResetGame:
		g.handleResetGame(ctx, c)
	case ActionLeaveGame:
		g.handleLeaveGame(ctx, c)
	default:
		g.logger.Warn("unknown action dropped",
			slog.String("conn_id", c.ID),
			slog.String("action", req.Type),
		)
	}
}

func (g *Gateway) handleLogin(ctx context.Context, c *Client, data json.RawMessage) {
	var req LoginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		g.hub.SendToConn(c.ID, eventLoginResponse, LoginResponse{Success: false, Message: "invalid credentials"})
		return
	}

	user, err := g.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		g.hub.SendToConn(c.ID, eventLoginResponse, LoginResponse{Success: false, Message: "invalid credentials"})
		return
	}

	// A seat without a live connection is fine (reconnection); a second
	// simultaneous login for the same identity is not
	if g.hub.IsConnected(user.ID) {
		g.hub.SendToConn(c.ID, eventLoginResponse, LoginResponse{Success: false, Message: model.ErrAlreadyConnected.Error()})
		return
	}

	g.hub.Bind(c.ID, user.ID)
	g.logger.Info("connection authenticated",
		slog.String("conn_id", c.ID),
		slog.String("user_id", string(user.ID)),
	)
	g.hub.SendToConn(c.ID, eventLoginResponse, LoginResponse{
		Success:   true,
		UserID:    user.ID,
		Username:  user.Username,
		Score:     user.Score,
		IsAdmin:   user.IsAdmin,
		IsBlocked: user.IsBlocked,
	})
}

func (g *Gateway) handleJoinGame(ctx context.Context, c *Client) {
	user := g.currentUser(ctx, c)
	if user == nil {
		return
	}

	outcome, err := g.scheduler.Join(ctx, user, c.ID)
	if err != nil {
		g.logRejection(c, ActionJoinGame, err)
		return
	}
	if outcome.Reconnected {
		// Private snapshot for the reconnecting connection only
		g.hub.SendToConn(c.ID, string(model.EventGameState), g.scheduler.Snapshot(ctx))
	}
}

func (g *Gateway) handleSelectTile(ctx context.Context, c *Client, data json.RawMessage) {
	var req SelectTileRequest
	if err := json.Unmarshal(data, &req); err != nil {
		g.logRejection(c, ActionSelectTile, err)
		return
	}

	// Receipt is acknowledged before any validation
	g.hub.SendToConn(c.ID, eventTileSelectResponse, TileSelectAck{Received: true, TileIndex: req.TileIndex})

	user := g.currentUser(ctx, c)
	if user == nil {
		return
	}

	if _, err := g.scheduler.SelectTile(ctx, user, req.TileIndex); err != nil {
		g.logRejection(c, ActionSelectTile, err)
	}
}

func (g *Gateway) handleGetPlayers(ctx context.Context, c *Client) {
	user := g.currentUser(ctx, c)
	players, err := g.admin.GetPlayers(ctx, user)
	if err != nil {
		g.hub.SendToConn(c.ID, eventGetPlayersResponse, Ack{Success: false, Message: ackMessage(err)})
		return
	}
	g.hub.SendToConn(c.ID, eventGetPlayersResponse, Ack{Success: true, Players: players})
}

func (g *Gateway) handleUpdatePoints(ctx context.Context, c *Client, data json.RawMessage) {
	var req UpdatePointsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		g.hub.SendToConn(c.ID, eventUpdatePointsResponse, Ack{Success: false, Message: "malformed request"})
		return
	}

	user := g.currentUser(ctx, c)
	if err := g.admin.UpdatePoints(ctx, user, req.UserID, req.Points); err != nil {
		g.hub.SendToConn(c.ID, eventUpdatePointsResponse, Ack{Success: false, Message: ackMessage(err)})
		return
	}
	g.hub.SendToConn(c.ID, eventUpdatePointsResponse, Ack{Success: true})
}

func (g *Gateway) handleToggleBlockUser(ctx context.Context, c *Client, data json.RawMessage) {
	var req ToggleBlockRequest
	if err := json.Unmarshal(data, &req); err != nil {
		g.hub.SendToConn(c.ID, eventToggleBlockUserResponse, Ack{Success: false, Message: "malformed request"})
		return
	}

	user := g.currentUser(ctx, c)
	if err := g.admin.ToggleBlock(ctx, user, req.UserID); err != nil {
		g.hub.SendToConn(c.ID, eventToggleBlockUserResponse, Ack{Success: false, Message: ackMessage(err)})
		return
	}
	g.hub.SendToConn(c.ID, eventToggleBlockUserResponse, Ack{Success: true})
}

func (g *Gateway) handleResetGame(ctx context.Context, c *Client) {
	user := g.currentUser(ctx, c)
	if err := g.admin.ResetGame(ctx, user); err != nil {
		g.hub.SendToConn(c.ID, eventResetGameResponse, Ack{Success: false, Message: ackMessage(err)})
		return
	}
	g.hub.SendToConn(c.ID, eventResetGameResponse, Ack{Success: true})
}

func (g *Gateway) handleLeaveGame(ctx context.Context, c *Client) {
	user := g.currentUser(ctx, c)
	if user == nil {
		return
	}
	g.scheduler.Leave(ctx, user.ID)
}

// handleDisconnect runs when a client's read loop ends. The identity
// binding is dropped but the player keeps their seat for reconnection.
func (g *Gateway) handleDisconnect(c *Client) {
	userID, ok := g.hub.Remove(c)
	if !ok {
		return
	}
	g.scheduler.Disconnect(userID)
}

// currentUser resolves the connection's bound identity to a fresh user
// record, or nil when the connection has not logged in.
func (g *Gateway) currentUser(ctx context.Context, c *Client) *model.User {
	userID, ok := g.hub.UserID(c.ID)
	if !ok {
		g.logger.Warn("action from unauthenticated connection dropped",
			slog.String("conn_id", c.ID))
		return nil
	}
	user, err := g.registry.GetUser(ctx, userID)
	if err != nil {
		g.logger.Warn("bound user not found",
			slog.String("conn_id", c.ID),
			slog.String("user_id", string(userID)),
		)
		return nil
	}
	return user
}

func (g *Gateway) logRejection(c *Client, action string, err error) {
	g.logger.Info("action rejected",
		slog.String("conn_id", c.ID),
		slog.String("action", action),
		slog.String("reason", err.Error()),
	)
}

// ackMessage maps service errors to the human-readable messages carried
// in success=false acknowledgments.
func ackMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return "not authorized"
	case errors.Is(err, model.ErrUserNotFound):
		return "user not found"
	default:
		return "internal error"
	}
}
