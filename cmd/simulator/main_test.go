package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-simulator/internal/config"
	"github.com/urfave/cli/v2"
)

const itinerariesJSON = `{
  "segments": [
    {"id": "S1", "points": [{"lat": 0.0, "lng": 0.0}, {"lat": 0.0, "lng": 0.001}]},
    {"id": "S2", "points": [{"lat": 0.0, "lng": 0.001}, {"lat": 0.001, "lng": 0.001}]}
  ],
  "trips": [
    {"id": "T1", "name": "Corner", "directedSegments": [{"segmentId": "S1"}, {"segmentId": "S2"}]}
  ]
}`

const fleetJSON = `{"vehicles": [{"id": "B1", "type": "BIKE", "tripId": "T1", "oscillate": true}]}`

const brokenFleetJSON = `{"vehicles": [
  {"id": "B1", "type": "BIKE", "tripId": "T1"},
  {"id": "B2", "type": "SCOOTER", "tripId": "T9"}
]}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// writeConfig writes the documents and a settings file pointing at them.
func writeConfig(t *testing.T, fleet string) string {
	t.Helper()
	dir := t.TempDir()
	it := writeFile(t, dir, "itineraries.json", itinerariesJSON)
	fl := writeFile(t, dir, "fleet.json", fleet)
	return writeFile(t, dir, "fleetsim.yaml", fmt.Sprintf("catalog:\n  itineraries: %s\n  fleet: %s\nlog:\n  level: warn\n", it, fl))
}

func testApp(out *bytes.Buffer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = out
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func TestValidateCommand_OK(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"simulator", "--config", writeConfig(t, fleetJSON), "validate"})
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 segments, 1 trips, 1 vehicles\n", out.String())
}

func TestValidateCommand_ReportsEveryProblem(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"simulator", "--config", writeConfig(t, brokenFleetJSON), "validate"})
	require.Error(t, err)

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "2 integrity problems")
	assert.Contains(t, out.String(), "SCOOTER")
	assert.Contains(t, out.String(), "T9")
}

func TestApp_BadConfig(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"simulator", "--config", "/nonexistent/fleetsim.yaml", "validate"})
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	require.NoError(t, setupLogging(config.LogConfig{Level: "debug", Format: "json"}))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	require.NoError(t, setupLogging(config.LogConfig{Level: "warn", Format: "text"}))
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)

	assert.Error(t, setupLogging(config.LogConfig{Level: "loud"}))
}

func TestUnjoin(t *testing.T) {
	single := fmt.Errorf("one")
	assert.Equal(t, []error{single}, unjoin(single))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	s, err := config.Load(writeConfig(t, fleetJSON))
	require.NoError(t, err)
	s.Server.Addr = freeAddr(t)
	s.Simulation.TickInterval = 5 * time.Millisecond
	s.Simulation.SettleDelay = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, s) }()

	healthURL := "http://" + s.Server.Addr + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + s.Server.Addr + "/routes")
	require.NoError(t, err)
	var body struct {
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Len(t, body.Features, 1)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestRun_StrictRejectsBrokenCatalog(t *testing.T) {
	s, err := config.Load(writeConfig(t, brokenFleetJSON))
	require.NoError(t, err)
	s.Simulation.Strict = true

	err = run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "T9"))
}
