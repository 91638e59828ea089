package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/rangelab/internal/engine"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 16384
)

var ErrConnectionClosed = websocket.ErrCloseSent

// analysis is the request currently running on a connection.
type analysis struct {
	requestID string
	cancel    context.CancelFunc
}

// Connection represents a WebSocket connection to a client. It runs at most
// one analysis at a time; a new request supersedes the running one.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	analyzer  Analyzer
	logger    *log.Logger
	clock     quartz.Clock
	maxTrials int
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	current   *analysis
	jobs      sync.WaitGroup
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, analyzer Analyzer, logger *log.Logger, clock quartz.Clock, maxTrials int) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:      conn,
		send:      make(chan *Message, 256),
		analyzer:  analyzer,
		logger:    logger.WithPrefix("conn"),
		clock:     clock,
		maxTrials: maxTrials,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close cancels any running analysis and closes the socket.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.cancel()
		c.mu.Unlock()
		c.jobs.Wait()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, dropping message", "type", msg.Type)
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod, "conn", "ping")
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

	switch msg.Type {
	case MessageTypeAnalyze:
		var data AnalyzeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, ErrorCodeInvalidMessage, "Failed to parse analyze data: "+err.Error())
			return
		}
		c.handleAnalyze(msg.RequestID, data)

	default:
		c.sendError(msg.RequestID, ErrorCodeUnknownMessageType, "Unknown message type: "+msg.Type.String())
	}
}

// handleAnalyze starts an analysis, cancelling whichever one is in flight.
func (c *Connection) handleAnalyze(requestID string, data AnalyzeData) {
	ctx, cancel := context.WithCancel(c.ctx)
	job := &analysis{requestID: requestID, cancel: cancel}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		cancel()
		return
	}
	if prev := c.current; prev != nil {
		c.logger.Debug("Superseding analysis", "previous", prev.requestID, "requestId", requestID)
		prev.cancel()
	}
	c.current = job
	c.jobs.Add(1)
	c.mu.Unlock()

	var opts []engine.Option
	if data.Seed != nil {
		opts = append(opts, engine.WithSeed(*data.Seed))
	}
	if data.Trials > 0 {
		trials := data.Trials
		if c.maxTrials > 0 && trials > c.maxTrials {
			c.logger.Debug("Clamping requested trials", "requested", trials, "max", c.maxTrials)
			trials = c.maxTrials
		}
		opts = append(opts, engine.WithTrials(trials))
	}

	go func() {
		defer c.jobs.Done()
		defer cancel()

		result, err := c.analyzer.Evaluate(ctx, data.HeroRange, data.VillainRange, data.Board, opts...)

		c.mu.Lock()
		superseded := c.current != job
		if !superseded {
			c.current = nil
		}
		c.mu.Unlock()

		switch {
		case superseded || errors.Is(err, engine.ErrCancelled):
			c.reply(requestID, MessageTypeCancelled, CancelledData{RequestID: requestID})
		case err != nil:
			c.sendAnalysisError(requestID, err)
		default:
			c.reply(requestID, MessageTypeResult, result)
		}
	}()
}

func (c *Connection) sendAnalysisError(requestID string, err error) {
	var insufficient *engine.InsufficientCombinationsError
	if errors.As(err, &insufficient) {
		c.sendError(requestID, ErrorCodeInsufficientCombinations, err.Error())
		return
	}
	if errors.Is(err, engine.ErrInvalidBoard) {
		c.sendError(requestID, ErrorCodeInvalidBoard, err.Error())
		return
	}
	c.logger.Error("Analysis failed", "requestId", requestID, "error", err)
	c.sendError(requestID, ErrorCodeAnalysisFailed, err.Error())
}

func (c *Connection) reply(requestID string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, requestID, data, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	c.reply(requestID, MessageTypeError, ErrorData{Code: code, Message: message})
}
