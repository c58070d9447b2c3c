package events

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/config"
	"blockpoints-bridge/internal/domain/entity"
	domainService "blockpoints-bridge/internal/domain/service"
	"blockpoints-bridge/internal/pkg/apperrors"
)

// Compile-time check
var _ domainService.EventPublisher = (*WebSocketPublisher)(nil)

// WebSocketPublisher pushes events as JSON text frames to a subscriber
// endpoint. The connection is dialled lazily and redialled after a failure.
type WebSocketPublisher struct {
	url          string
	dialer       websocket.Dialer
	writeTimeout time.Duration
	logger       *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebSocketPublisher(cfg config.WebSocketConfig, logger *zap.Logger) *WebSocketPublisher {
	handshakeTimeout := cfg.HandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &WebSocketPublisher{
		url: cfg.URL,
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		writeTimeout: writeTimeout,
		logger:       logger.Named("WebSocketEventPublisher"),
	}
}

func (p *WebSocketPublisher) Publish(ctx context.Context, event entity.TransferEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		conn, _, err := p.dialer.DialContext(ctx, p.url, nil)
		if err != nil {
			p.logger.Debug("WebSocket dial failed", zap.String("url", p.url), zap.Error(err))
			return fmt.Errorf("%w: websocket dial to %s failed: %v", apperrors.ErrExternalServiceFailure, p.url, err)
		}
		p.logger.Info("WebSocket event sink connected", zap.String("url", p.url))
		p.conn = conn
	}

	_ = p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	if err := p.conn.WriteJSON(event); err != nil {
		p.logger.Debug("WebSocket write failed, dropping connection", zap.String("url", p.url), zap.Error(err))
		_ = p.conn.Close()
		p.conn = nil
		return fmt.Errorf("%w: websocket write to %s failed: %v", apperrors.ErrExternalServiceFailure, p.url, err)
	}
	return nil
}

// Close sends a close frame and releases the connection.
func (p *WebSocketPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := p.conn.Close()
	p.conn = nil
	return err
}
