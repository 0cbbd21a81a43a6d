package http

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-audit/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/sse"
)

func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()

	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			return event, data
		}
	}
}

func TestStream_DeliversDatasetEvents(t *testing.T) {
	hub := sse.NewHub()
	server := httptest.NewServer(http.HandlerFunc(NewStreamHandler(hub).Stream))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	event, _ := readEvent(t, reader)
	require.Equal(t, "connected", event)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(sse.TopicDataset) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(sse.TopicDataset, sse.Event{
		Event: cron.EventDatasetReloaded,
		Data:  map[string]string{"fingerprint": "v2"},
	})

	event, data := readEvent(t, reader)
	assert.Equal(t, cron.EventDatasetReloaded, event)
	assert.JSONEq(t, `{"fingerprint":"v2"}`, data)
}
