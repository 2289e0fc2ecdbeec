package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juscash/djetracker/internal/apiclient"
)

func TestCrawlPollIssuedFromUpdate(t *testing.T) {
	m := NewCrawlModel(apiclient.New("http://127.0.0.1:1"))

	// Init only emits the tick; no request is in flight yet.
	initCmd := m.Init()
	require.NotNil(t, initCmd)
	require.IsType(t, pollTickMsg{}, initCmd())
	assert.Nil(t, m.cancelPoll)

	// The tick makes Update issue the poll, and the returned model copy
	// holds the cancel func for it.
	model, cmd := m.Update(pollTickMsg{})
	m = model.(CrawlModel)
	require.NotNil(t, cmd)
	assert.NotNil(t, m.cancelPoll)

	// The endpoint is unreachable, so the poll fails and the interval
	// doubles before the next attempt.
	statusMsg, ok := cmd().(crawlStatusMsg)
	require.True(t, ok)
	require.Error(t, statusMsg.err)

	model, cmd = m.Update(statusMsg)
	m = model.(CrawlModel)
	assert.Nil(t, m.cancelPoll)
	assert.Equal(t, 2*pollInterval, m.interval)
	assert.NotNil(t, cmd)
}

func TestCrawlPollBackoffCaps(t *testing.T) {
	m := NewCrawlModel(apiclient.New("http://127.0.0.1:1"))
	m.interval = 20 * time.Second

	model, cmd := m.Update(pollTickMsg{})
	m = model.(CrawlModel)

	statusMsg, ok := cmd().(crawlStatusMsg)
	require.True(t, ok)
	require.Error(t, statusMsg.err)

	model, _ = m.Update(statusMsg)
	m = model.(CrawlModel)
	assert.Equal(t, maxPollInterval, m.interval)
}

func TestCrawlEscAbortsInFlightPoll(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	m := NewCrawlModel(apiclient.New(srv.URL))

	model, cmd := m.Update(pollTickMsg{})
	m = model.(CrawlModel)
	require.NotNil(t, m.cancelPoll)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	// Let the request reach the server before leaving the view.
	time.Sleep(50 * time.Millisecond)

	model, backCmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(CrawlModel)
	require.NotNil(t, backCmd)
	assert.IsType(t, BackMsg{}, backCmd())

	select {
	case msg := <-done:
		statusMsg, ok := msg.(crawlStatusMsg)
		require.True(t, ok)
		require.Error(t, statusMsg.err)

		// A poll aborted by leaving the view must not reschedule.
		_, cmd := m.Update(statusMsg)
		assert.Nil(t, cmd)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight poll was not aborted")
	}
}
