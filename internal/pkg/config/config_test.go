package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/routedesk/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("routedesk-test")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "routedesk-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, 8, cfg.Geocode.Concurrency)
	assert.False(t, cfg.Production())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ROUTEDESK_SERVER_PORT", "9090")
	t.Setenv("ROUTEDESK_DEPOT_LAT", "37.5")

	cfg, err := config.Load("routedesk-test")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 37.5, cfg.Depot.Lat)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg, err := config.Load("routedesk-test")
	require.NoError(t, err)

	cfg.Server.Port = 0
	cfg.Depot.Lat = 120
	cfg.Geocode.Concurrency = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "depot.lat")
	assert.Contains(t, err.Error(), "geocode.concurrency")
}

func TestValidate_ProductionNeedsProviderKeys(t *testing.T) {
	cfg, err := config.Load("routedesk-test")
	require.NoError(t, err)

	cfg.Env = "production"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kakao.rest_key")

	cfg.Kakao.RESTKey = "k"
	cfg.Messaging.URL = "https://msg.example"
	cfg.Messaging.APIKey = "key"
	cfg.Messaging.APISecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := config.DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "db", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", d.DSN())
}
