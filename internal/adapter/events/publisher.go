// Package events publishes conversion events to a NATS subject so other CRM
// services can react to pipeline transitions.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/heartmarshall/crm-lineage/internal/domain"
	"github.com/heartmarshall/crm-lineage/pkg/ctxutil"
)

// ConversionEvent is the JSON payload published for every recorded conversion.
type ConversionEvent struct {
	ID          string    `json:"id"`
	SourceType  string    `json:"source_type"`
	SourceID    int64     `json:"source_id"`
	TargetType  string    `json:"target_type"`
	TargetID    int64     `json:"target_id"`
	ConvertedBy *int64    `json:"converted_by,omitempty"`
	ConvertedAt time.Time `json:"converted_at"`
	RequestID   string    `json:"request_id,omitempty"`
}

// NewConversionEvent builds the event payload for rec.
func NewConversionEvent(ctx context.Context, rec domain.ConversionRecord) ConversionEvent {
	return ConversionEvent{
		ID:          rec.ID.String(),
		SourceType:  string(rec.SourceType),
		SourceID:    rec.SourceID,
		TargetType:  string(rec.TargetType),
		TargetID:    rec.TargetID,
		ConvertedBy: rec.ConvertedBy,
		ConvertedAt: rec.CreatedAt.UTC(),
		RequestID:   ctxutil.RequestIDFromCtx(ctx),
	}
}

const closeTimeout = 5 * time.Second

// Publisher sends conversion events on a single subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect dials the NATS server at url and returns a Publisher for subject.
func Connect(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("crm-lineage"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", url, err)
	}
	return New(conn, subject), nil
}

// New wraps an existing connection.
func New(conn *nats.Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// PublishConversion publishes rec as a ConversionEvent. The record id is sent
// as the Nats-Msg-Id header so JetStream consumers can deduplicate.
func (p *Publisher) PublishConversion(ctx context.Context, rec domain.ConversionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(NewConversionEvent(ctx, rec))
	if err != nil {
		return fmt.Errorf("marshal conversion event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set(nats.MsgIdHdr, rec.ID.String())
	msg.Data = data

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish conversion event %s: %w", rec.ID, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection. CLI commands exit
// right after Close, so it waits for the flush instead of draining in the
// background.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	_ = p.conn.FlushTimeout(closeTimeout)
	p.conn.Close()
}
