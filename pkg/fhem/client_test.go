package fhem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fhemServer struct {
	mu       sync.Mutex
	token    string
	status   int
	commands []url.Values
}

func (f *fhemServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.URL.Path != "/fhem" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if f.token != "" {
		w.Header().Set(csrfTokenHeader, f.token)
	}
	query := r.URL.Query()
	if query.Get("cmd") == "" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if query.Get("fwcsrf") != f.token {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.commands = append(f.commands, query)
	w.WriteHeader(f.status)
}

func setupClientTest(t *testing.T, server *fhemServer) *WebClient {
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return NewWebClient("http", u.Hostname(), port, 5*time.Second)
}

func TestWebClient_SendCommand(t *testing.T) {
	t.Run("should send the command with the csrf token", func(t *testing.T) {
		// given
		server := &fhemServer{token: "csrf_123", status: http.StatusOK}
		client := setupClientTest(t, server)
		command := `set vitoconnect WW-Zeitplan {"mon":[{"start":"04:50","position":0,"end":"22:00","mode":"top"}]}`

		// when
		err := client.SendCommand(context.Background(), command)
		require.NoError(t, err)
		err = client.SendCommand(context.Background(), "set vitoconnect update")

		// then
		require.NoError(t, err)
		require.Len(t, server.commands, 2)
		assert.Equal(t, command, server.commands[0].Get("cmd"))
		assert.Equal(t, "1", server.commands[0].Get("XHR"))
		assert.Equal(t, "csrf_123", server.commands[0].Get("fwcsrf"))
	})

	t.Run("should work with csrf protection disabled", func(t *testing.T) {
		server := &fhemServer{status: http.StatusOK}
		client := setupClientTest(t, server)

		err := client.SendCommand(context.Background(), "set vitoconnect update")

		require.NoError(t, err)
		require.Len(t, server.commands, 1)
		assert.Empty(t, server.commands[0].Get("fwcsrf"))
	})

	t.Run("should fail on non-OK responses", func(t *testing.T) {
		server := &fhemServer{token: "csrf_123", status: http.StatusInternalServerError}
		client := setupClientTest(t, server)

		err := client.SendCommand(context.Background(), "set vitoconnect update")

		assert.Error(t, err)
	})

	t.Run("should fail when FHEM is unreachable", func(t *testing.T) {
		client := NewWebClient("http", "127.0.0.1", 1, time.Second)

		err := client.SendCommand(context.Background(), "set vitoconnect update")

		assert.Error(t, err)
	})
}
