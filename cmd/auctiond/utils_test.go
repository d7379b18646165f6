// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("localhost:8670"))
	assert.True(t, isLoopback("127.0.0.1:8670"))
	assert.True(t, isLoopback("[::1]:8670"))
	assert.False(t, isLoopback(":8670"))
	assert.False(t, isLoopback("0.0.0.0:8670"))
	assert.False(t, isLoopback("192.168.1.10:8670"))
	assert.False(t, isLoopback("localhost"))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, logLevel(0))
	assert.Equal(t, slog.LevelWarn, logLevel(2))
	assert.Equal(t, slog.LevelInfo, logLevel(3))
	assert.Equal(t, slog.LevelDebug, logLevel(9))
}

func TestHandleXEngine(t *testing.T) {
	h := handleXEngine(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), meter.AuctionAccountAddr)

	req := httptest.NewRequest("GET", "/node/status", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, meter.AuctionAccountAddr.String(), rec.Header().Get("x-auction-engine"))

	req = httptest.NewRequest("GET", "/node/status", nil)
	req.Header.Set("x-auction-engine", meter.BytesToAddress([]byte("other")).String())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auctiond.env")
	require.NoError(t, os.WriteFile(path, []byte("AUCTIOND_API_ADDR=localhost:9999\n"), 0600))
	os.Unsetenv("AUCTIOND_API_ADDR")
	defer os.Unsetenv("AUCTIOND_API_ADDR")

	loadEnvFile([]string{"--env-file", path})
	assert.Equal(t, "localhost:9999", os.Getenv("AUCTIOND_API_ADDR"))

	// a missing default file is not an error
	loadEnvFile([]string{"--env-file=" + filepath.Join(t.TempDir(), "missing.env")})
}
