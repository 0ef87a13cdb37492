// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
notifier.go - Server Notification Socket

This file implements a WebSocket listener for the server's push
notifications. It keeps one connection open, reconnects with exponential
backoff, and turns the messages the client cares about into typed
Notification values on a channel.

WebSocket Endpoint: ws://{server}/socket?api_key={token}&deviceId={device}
*/

package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/metrics"
	"github.com/tomtom215/finplay/internal/models"
)

// NotificationType is the MessageType of a server push message.
type NotificationType string

const (
	NotifyUserDataChanged NotificationType = "UserDataChanged"
	NotifyPlaystate       NotificationType = "Playstate"
	NotifyLibraryChanged  NotificationType = "LibraryChanged"
)

// Playstate commands sent by remote controllers.
const (
	CommandStop        = "Stop"
	CommandPause       = "Pause"
	CommandUnpause     = "Unpause"
	CommandPlayPause   = "PlayPause"
	CommandSeek        = "Seek"
	CommandNextTrack   = "NextTrack"
	CommandPrevTrack   = "PreviousTrack"
	CommandFastForward = "FastForward"
	CommandRewind      = "Rewind"
)

// Notification is one decoded server push message. Exactly one of the
// payload fields is set, matching Type.
type Notification struct {
	Type      NotificationType
	UserData  *UserDataChange
	Playstate *PlaystateCommand
	Library   *LibraryChange
}

// UserDataChange reports watched state or favourites changing on the server.
type UserDataChange struct {
	UserID       string         `json:"UserId"`
	UserDataList []ItemUserData `json:"UserDataList"`
}

// ItemUserData is the new user data of one item.
type ItemUserData struct {
	ItemID string `json:"ItemId"`
	models.UserItemData
}

// PlaystateCommand is a remote control request for the active player.
type PlaystateCommand struct {
	Command           string `json:"Command"`
	SeekPositionTicks int64  `json:"SeekPositionTicks,omitempty"`
	ControllingUserID string `json:"ControllingUserId,omitempty"`
}

// LibraryChange lists items the server added, removed or updated.
type LibraryChange struct {
	ItemsAdded   []string `json:"ItemsAdded"`
	ItemsRemoved []string `json:"ItemsRemoved"`
	ItemsUpdated []string `json:"ItemsUpdated"`
}

// wsMessage represents a generic WebSocket message
type wsMessage struct {
	MessageType string          `json:"MessageType"`
	Data        json.RawMessage `json:"Data,omitempty"`
}

const (
	notifierMinBackoff   = 1 * time.Second
	notifierMaxBackoff   = 32 * time.Second
	notifierKeepAlive    = 30 * time.Second
	notifierReadDeadline = 90 * time.Second
	notificationBuffer   = 32
)

// Notifier listens on the server notification socket. Run it with Serve,
// usually under the supervisor tree.
type Notifier struct {
	wsURL  string
	dialer *websocket.Dialer
	out    chan Notification

	minBackoff time.Duration
	maxBackoff time.Duration
	keepAlive  time.Duration

	writeMu sync.Mutex
}

// NewNotifier creates a notifier for the client's server and account.
func NewNotifier(c *Client) (*Notifier, error) {
	if c.account == nil {
		return nil, ErrNotSignedIn
	}
	wsURL, err := c.WebSocketURL()
	if err != nil {
		return nil, err
	}
	return &Notifier{
		wsURL: wsURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout:  10 * time.Second,
			EnableCompression: true,
		},
		out:        make(chan Notification, notificationBuffer),
		minBackoff: notifierMinBackoff,
		maxBackoff: notifierMaxBackoff,
		keepAlive:  notifierKeepAlive,
	}, nil
}

// WebSocketURL returns the notification socket URL for the client's account.
func (c *Client) WebSocketURL() (string, error) {
	u := *c.root
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = c.root.Path + "socket"
	u.RawPath = ""

	q := &query{}
	if c.account != nil {
		q.set("api_key", c.account.AccessToken)
	}
	q.set("deviceId", c.opts.DeviceID)
	u.RawQuery = q.encode()
	return u.String(), nil
}

// Notifications returns the channel notifications are delivered on. It is
// never closed. When the consumer falls behind, new notifications are dropped.
func (n *Notifier) Notifications() <-chan Notification {
	return n.out
}

// String implements fmt.Stringer for the supervisor.
func (n *Notifier) String() string {
	return "notifier"
}

// Serve keeps the socket connected until ctx is canceled.
func (n *Notifier) Serve(ctx context.Context) error {
	backoff := n.minBackoff
	for {
		connected, err := n.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = n.minBackoff
		}
		logging.Warn().Err(err).Dur("delay", backoff).Msg("[notifier] Connection lost, reconnecting")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
		if backoff > n.maxBackoff {
			backoff = n.maxBackoff
		}
	}
}

// session runs one connection until it fails. connected reports whether
// the dial succeeded.
func (n *Notifier) session(ctx context.Context) (connected bool, err error) {
	conn, resp, err := n.dialer.DialContext(ctx, n.wsURL, nil)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	logging.Info().Msg("[notifier] Connected")
	metrics.NotifierConnections.Set(1)
	defer metrics.NotifierConnections.Set(0)

	sessCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		n.keepAliveLoop(sessCtx, conn)
	}()
	// Unblock ReadMessage when the parent context ends.
	go func() {
		<-sessCtx.Done()
		_ = conn.Close()
	}()

	err = n.readLoop(conn)

	cancel()
	wg.Wait()
	n.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	n.writeMu.Unlock()
	_ = conn.Close()
	return true, err
}

func (n *Notifier) readLoop(conn *websocket.Conn) error {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(notifierReadDeadline)); err != nil {
			return err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("closed by server")
			}
			return err
		}
		n.handleMessage(conn, data)
	}
}

// handleMessage decodes one message and forwards the ones the client uses.
func (n *Notifier) handleMessage(conn *websocket.Conn, data []byte) {
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logging.Debug().Err(err).Msg("[notifier] Failed to parse message")
		return
	}
	metrics.NotifierMessages.WithLabelValues(msg.MessageType).Inc()

	note := Notification{Type: NotificationType(msg.MessageType)}
	switch note.Type {
	case NotifyUserDataChanged:
		note.UserData = &UserDataChange{}
		if err := json.Unmarshal(msg.Data, note.UserData); err != nil {
			logging.Debug().Err(err).Msg("[notifier] Failed to parse UserDataChanged")
			return
		}
	case NotifyPlaystate:
		note.Playstate = &PlaystateCommand{}
		if err := json.Unmarshal(msg.Data, note.Playstate); err != nil {
			logging.Debug().Err(err).Msg("[notifier] Failed to parse Playstate")
			return
		}
	case NotifyLibraryChanged:
		note.Library = &LibraryChange{}
		if err := json.Unmarshal(msg.Data, note.Library); err != nil {
			logging.Debug().Err(err).Msg("[notifier] Failed to parse LibraryChanged")
			return
		}
	case "ForceKeepAlive":
		n.sendKeepAlive(conn)
		return
	default:
		// KeepAlive acknowledgements and session broadcasts are ignored.
		return
	}

	select {
	case n.out <- note:
	default:
		logging.Warn().Str("type", msg.MessageType).Msg("[notifier] Consumer is behind, dropping notification")
	}
}

// keepAliveLoop sends periodic keep-alive messages
func (n *Notifier) keepAliveLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(n.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := n.sendKeepAlive(conn); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (n *Notifier) sendKeepAlive(conn *websocket.Conn) error {
	n.writeMu.Lock()
	defer n.writeMu.Unlock()
	if err := conn.WriteJSON(wsMessage{MessageType: "KeepAlive"}); err != nil {
		logging.Debug().Err(err).Msg("[notifier] Keep-alive failed")
		return err
	}
	return nil
}
