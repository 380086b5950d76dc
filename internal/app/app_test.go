package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const datasetCSV = `company,sector,country,year,environmental_score,social_score,governance_score,total_esg_score,carbon_emissions_mt,energy_intensity,water_usage_m3,waste_recycled_pct,employee_turnover_pct,diversity_score,safety_incidents,community_investment_usd,board_independence_pct,executive_pay_ratio,controversy_score,market_cap_billion
Acme Corp,Technology,USA,2023,68,70,74,70.6,30,1.9,98000,62,11,69,3,2800000,80,132,75,150
Nimbus Soft,Technology,Germany,2023,61,66,65,64,12,1.2,40000,70,15,72,1,900000,72,90,80,40
`

func writeConfig(t *testing.T, dir string, withDataset bool) {
	t.Helper()

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	if withDataset {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, "esg_data.csv"), []byte(datasetCSV), 0644))
	}

	cfg := fmt.Sprintf(`server:
  port: 8080
logging:
  level: error
  output: console
paths:
  data_dir: %q
  reports_dir: %q
  exports_dir: %q
  logs_dir: %q
`,
		dataDir,
		filepath.Join(dir, "reports"),
		filepath.Join(dir, "exports"),
		filepath.Join(dir, "logs"))

	configFile := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte(cfg), 0644))
	t.Setenv("ESG_CONFIG_FILE", configFile)
}

func TestNewApplication(t *testing.T) {
	writeConfig(t, t.TempDir(), true)

	application, err := NewApplication()
	require.NoError(t, err)

	assert.NotNil(t, application.Config)
	assert.NotNil(t, application.Logger)
	assert.NotNil(t, application.Router)
	assert.NotNil(t, application.Server)
	assert.NotNil(t, application.Data)
	assert.NotNil(t, application.Analytics)

	status := application.Data.Status()
	assert.True(t, status.Loaded)
	assert.Equal(t, 2, status.Records)
}

func TestNewApplicationMissingDataset(t *testing.T) {
	writeConfig(t, t.TempDir(), false)

	// a missing dataset file must not prevent startup
	application, err := NewApplication()
	require.NoError(t, err)
	assert.False(t, application.Data.Status().Loaded)
}

func TestApplicationServesRequests(t *testing.T) {
	writeConfig(t, t.TempDir(), true)

	application, err := NewApplication()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApplicationStop(t *testing.T) {
	writeConfig(t, t.TempDir(), true)

	application, err := NewApplication()
	require.NoError(t, err)

	// shutting down a server that never started listening is a no-op
	require.NoError(t, application.Stop(context.Background()))
}

func TestEnsuredDirectories(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, true)

	_, err := NewApplication()
	require.NoError(t, err)

	for _, sub := range []string{"reports", "exports", "logs"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir())
	}
}
