package main

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"aetherbridge/compat-probe/mockserver"
	"aetherbridge/compat-probe/probe"

	"github.com/stretchr/testify/assert"
)

func TestRunExitCodes(t *testing.T) {
	testCases := []struct {
		scenario mockserver.Scenario
		want     int
	}{
		{mockserver.ScenarioOK, probe.ExitSuccess},
		{mockserver.ScenarioNoChoices, probe.ExitContractViolation},
		{mockserver.ScenarioMalformed, probe.ExitParseFailure},
		{mockserver.ScenarioServerError, probe.ExitTransportFailure},
	}

	for _, tc := range testCases {
		t.Run(string(tc.scenario), func(t *testing.T) {
			srv := httptest.NewServer(mockserver.New(mockserver.Options{Scenario: tc.scenario}))
			defer srv.Close()

			t.Setenv("PROBE_BASE_URL", srv.URL+"/v1")
			t.Setenv("PROBE_TIMEOUT", "5s")

			got := run([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRunConfigError(t *testing.T) {
	got := run([]string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--timeout", "later"})
	assert.Equal(t, probe.ExitConfigError, got)
}

func TestRunHelp(t *testing.T) {
	assert.Equal(t, probe.ExitSuccess, run([]string{"--help"}))
}
