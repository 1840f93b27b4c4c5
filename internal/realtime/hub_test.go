package realtime

import (
	"SaveByte/domain"
	"SaveByte/pkg/jwt"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, jwt.JWTService, *httptest.Server) {
	t.Helper()
	jwtService := jwt.NewJWTService("hub-secret")
	hub := NewHub(jwtService, "*", zerolog.Nop())
	server := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return hub, jwtService, server
}

func dial(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversToUserRoom(t *testing.T) {
	hub, jwtService, server := newTestHub(t)

	token, err := jwtService.GenerateTokenUser("donor-1", domain.RoleHostel)
	require.NoError(t, err)
	conn := dial(t, server, token)

	require.Eventually(t, func() bool { return hub.Connections("donor-1") == 1 }, time.Second, 10*time.Millisecond)

	delivered := hub.NotifyUser("donor-1", domain.NotificationPayload{
		Message: "Your food donation has been accepted",
		Type:    domain.NotificationTransactionStarted,
	})
	assert.True(t, delivered)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Event string                     `json:"event"`
		Data  domain.NotificationPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, "notification", frame.Event)
	assert.Equal(t, domain.NotificationTransactionStarted, frame.Data.Type)
}

func TestHub_OtherRoomsDoNotReceive(t *testing.T) {
	hub, jwtService, server := newTestHub(t)

	token, err := jwtService.GenerateTokenUser("ngo-1", domain.RoleNGO)
	require.NoError(t, err)
	dial(t, server, token)
	require.Eventually(t, func() bool { return hub.Connections("ngo-1") == 1 }, time.Second, 10*time.Millisecond)

	assert.False(t, hub.NotifyUser("ngo-2", domain.NotificationPayload{Message: "hi", Type: "x"}))
}

func TestHub_RejectsMissingToken(t *testing.T) {
	_, _, server := newTestHub(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, jwtService, server := newTestHub(t)

	token, err := jwtService.GenerateTokenUser("awc-1", domain.RoleAWC)
	require.NoError(t, err)
	conn := dial(t, server, token)
	require.Eventually(t, func() bool { return hub.Connections("awc-1") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Connections("awc-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
