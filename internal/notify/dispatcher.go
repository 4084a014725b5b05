// Package notify relays each newly created order to the staff chat webhook
// and records the outcome on the order record. Delivery is at-most-once:
// one POST per order, no retry, and the status patch is the terminal action
// of every dispatch.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"smartmenu-system/internal/common/logger"
	"smartmenu-system/internal/domain"
)

// ChannelName keys this channel's entry in the record's status map, so a
// second channel added later writes its own key instead of clobbering ours.
const ChannelName = "slack"

type ChannelPatcher interface {
	MergeChannelStatus(ctx context.Context, orderID, channel string, st domain.ChannelStatus) error
}

type Dispatcher struct {
	patcher    ChannelPatcher
	webhookURL string
	client     *http.Client
	lg         *logger.Logger

	now func() time.Time
}

func NewDispatcher(patcher ChannelPatcher, webhookURL string, lg *logger.Logger) *Dispatcher {
	return &Dispatcher{
		patcher:    patcher,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		lg:         lg,
		now:        time.Now,
	}
}

// Handle performs one dispatch for one order-created event. It never panics
// and never returns an error to the trigger: a missing webhook URL is a
// logged skip with no status written, and every attempted delivery ends in
// exactly one status patch, success or not.
func (d *Dispatcher) Handle(ctx context.Context, evt domain.OrderCreatedEvent) {
	if d.webhookURL == "" {
		d.lg.Warn("notification_skipped", map[string]any{
			"order_number": evt.OrderNumber, "reason": "webhook url not configured",
		})
		return
	}

	st := domain.ChannelStatus{At: d.now().UTC()}
	if err := d.post(ctx, renderSummary(evt)); err != nil {
		st.Error = err.Error()
		d.lg.Error("notification_failed", err, map[string]any{"order_number": evt.OrderNumber})
	} else {
		st.Sent = true
		d.lg.Info("notification_sent", map[string]any{"order_number": evt.OrderNumber})
	}

	if err := d.patcher.MergeChannelStatus(ctx, evt.OrderID, ChannelName, st); err != nil {
		d.lg.Error("status_patch_failed", err, map[string]any{"order_id": evt.OrderID})
	}
}

func (d *Dispatcher) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
