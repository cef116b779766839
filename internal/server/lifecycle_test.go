package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_kafka "github.com/pupkingeorgij/artmarket/internal/kafka/mocks"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

type httpResult struct {
	status int
	body   string
	err    error
}

func TestServe_InFlightRequestOutlivesRunContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_kafka.NewMockProducer(ctrl)
	sent := &sentMessages{}

	producer.EXPECT().
		SendMessage(gomock.Any(), testTopic, gomock.Any(), gomock.Any()).
		DoAndReturn(sent.record).
		Times(1)

	audit := NewAuditManager(producer, testTopic, 1, 10, time.Hour, nil)
	s, m := newTestServer(t, Options{Audit: audit})

	entered := make(chan struct{})
	release := make(chan struct{})
	m.executors.EXPECT().GetExecutor(gomock.Any(), janeUUID).
		DoAndReturn(func(ctx context.Context, _ string) (*storage.ExecutorOut, error) {
			close(entered)
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return &storage.ExecutorOut{Name: "Jane"}, nil
		})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() {
		served <- s.Serve(runCtx, lis)
	}()

	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}

	responses := make(chan httpResult, 1)
	go func() {
		resp, err := client.Get("http://" + lis.Addr().String() + "/api/artist?uuid=" + janeUUID)
		if err != nil {
			responses <- httpResult{err: err}
			return
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		responses <- httpResult{status: resp.StatusCode, body: string(body), err: err}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	// SIGTERM cancels the run context before shutdown starts draining.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownDone := make(chan error, 1)
	go func() {
		shutdownDone <- s.Shutdown(shutdownCtx)
	}()

	close(release)

	res := <-responses
	require.NoError(t, res.err)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, `"name":"Jane"`)

	require.NoError(t, <-shutdownDone)
	require.NoError(t, <-served)

	entries := sent.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "get_artist", entries[0].Route)
	assert.Equal(t, http.StatusOK, entries[0].StatusCode)
	assert.Equal(t, 0, audit.Pending())
}

func TestRun_PortInUse(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer lis.Close()

	_, port, err := net.SplitHostPort(lis.Addr().String())
	require.NoError(t, err)

	s, _ := newTestServer(t, Options{})
	assert.Error(t, s.Run(context.Background(), port))
}
