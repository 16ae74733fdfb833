package reporter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/biandopa/cpusim/internal/clock"
	ilog "github.com/biandopa/cpusim/internal/log"
	"github.com/biandopa/cpusim/internal/sched"
)

// WebhookReporter POSTs the current snapshot as JSON to an external
// collector URL every frame.
type WebhookReporter struct {
	URL    string
	Client *http.Client
	Clock  *clock.Clock
	Log    *slog.Logger
}

// NewWebhookReporter builds a WebhookReporter posting to url with the
// default http.Client.
func NewWebhookReporter(url string, clk *clock.Clock, log *slog.Logger) *WebhookReporter {
	return &WebhookReporter{URL: url, Client: http.DefaultClient, Clock: clk, Log: log}
}

// Snapshot implements Reporter by POSTing the current rows to w.URL.
// Delivery failures are logged, not fatal: the dispatcher's correctness
// never depends on whether an external collector received a frame.
func (w *WebhookReporter) Snapshot(state *sched.State) {
	rows := BuildSnapshot(state, w.Clock.Now())

	body, err := json.Marshal(rows)
	if err != nil {
		w.Log.Error("failed to encode snapshot", ilog.ErrAttr(err))
		return
	}

	resp, err := w.Client.Post(w.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		w.Log.Debug("failed to push snapshot", ilog.ErrAttr(err), ilog.StringAttr("url", w.URL))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		w.Log.Debug("snapshot push rejected", ilog.StringAttr("status", strconv.Itoa(resp.StatusCode)))
	}
}
