package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runFile = `
dataset: ty2021
scenarios:
  - name: millionaires
    description: 2% over $1M
    policy:
      surcharge_rate: 0.02
      surcharge_threshold: 1000000
  - name: millionaires_static
    preset: static
    policy:
      surcharge_rate: 0.02
      surcharge_threshold: 1000000
  - name: custom_response
    policy:
      surcharge_rate: 0.03
      surcharge_threshold: 2000000
    behavioral:
      model: threshold
`

// isolate keeps user config files and the working directory out of the test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	t.Setenv("HOME", dir)
	t.Setenv("REVIMPACT_LOG_LEVEL", "error")
	return dir
}

func writeRunFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(runFile), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "revimpact", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, flag := range []string{"log-level", "log-format", "dataset"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"run",
		"export",
		"presets",
		"sensitivity",
		"compare",
		"tipping-point",
		"validate",
		"datasets",
		"version",
	}

	registered := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %s not registered", name)
	}
}

func TestRunCommand_Inline(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "run", "--dataset", "ty2021")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Scenario: inline")
	assert.Contains(t, out, "$5,346,600,000")
}

func TestRunCommand_JSON(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "run", "--dataset", "ty2021", "--format", "json")
	require.Equal(t, 0, code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "inline", doc["scenario"])
	assert.Equal(t, "ty2021", doc["dataset"])
	results, ok := doc["results"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "5346600000", results["totalMechanicalGain"])
}

func TestRunCommand_RunFileAndOverrides(t *testing.T) {
	dir := isolate(t)
	path := writeRunFile(t, dir)

	out, _, code := execute(t, "run", path, "--scenario", "millionaires_static", "--format", "json")
	require.Equal(t, 0, code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "millionaires_static", doc["scenario"])
	assert.Equal(t, "ty2021", doc["dataset"], "run file picks the dataset")
	assert.Equal(t, "static", doc["preset"])

	out, _, code = execute(t, "run", path, "--dataset", "ty2022", "--preset", "aggressive", "--format", "json")
	require.Equal(t, 0, code)
	doc = nil
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "millionaires", doc["scenario"])
	assert.Equal(t, "ty2022", doc["dataset"], "explicit flag wins over the run file")
	assert.Equal(t, "aggressive", doc["preset"])
}

func TestRunCommand_Errors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"run", "--format", "pdf"}, "unknown format"},
		{"xlsx without out", []string{"run", "--format", "xlsx"}, "--out"},
		{"unknown dataset", []string{"run", "--dataset", "ty1990"}, "ty1990"},
		{"bad preset", []string{"run", "--preset", "panic"}, "panic"},
		{"missing run file", []string{"run", "missing.yaml"}, "missing.yaml"},
		{"bad transform", []string{"run", "--transform", "no_such_transform"}, "no_such_transform"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRunCommand_XLSXFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "report.xlsx")

	_, stderr, code := execute(t, "run", "--format", "xlsx", "--out", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "Wrote "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunCommand_ListTransforms(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "run", "--list-transforms")
	require.Equal(t, 0, code)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestExportCommand(t *testing.T) {
	dir := isolate(t)
	reports := filepath.Join(dir, "reports")

	out, _, code := execute(t, "export", "--formats", "json,csv", "--dir", reports)
	require.Equal(t, 0, code)

	paths := strings.Fields(out)
	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], ".json"))
	assert.True(t, strings.HasSuffix(paths[1], ".csv"))
	for _, p := range paths {
		assert.FileExists(t, p)
		assert.Equal(t, reports, filepath.Dir(p))
	}

	_, stderr, code := execute(t, "export", "--formats", "pdf", "--dir", reports)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown format")
}

func TestSensitivityCommand(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "sensitivity", "--parameter", "surcharge_rate", "--steps", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "SENSITIVITY ANALYSIS: SURCHARGE RATE")

	out, _, code = execute(t, "sensitivity", "--steps", "5", "--format", "csv")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "surcharge_rate,"))

	_, stderr, code := execute(t, "sensitivity", "--steps", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--steps")
}

func TestPresetsCommand(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "presets", "--format", "csv")
	require.Equal(t, 0, code)
	for _, preset := range []string{"static", "conservative", "moderate", "aggressive"} {
		assert.Contains(t, out, preset)
	}
}

func TestCompareCommand(t *testing.T) {
	dir := isolate(t)

	out, _, code := execute(t, "compare", "--list-templates")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "millionaires_tax_nyc")

	out, _, code = execute(t, "compare", "--with", "static_response,short_horizon")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "static_response")
	assert.Contains(t, out, "short_horizon")

	path := writeRunFile(t, dir)
	out, _, code = execute(t, "compare", path, "--against", "millionaires_static", "--format", "json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "millionaires_static")

	_, stderr, code := execute(t, "compare", "--against", "millionaires_static")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "run file")
}

func TestTippingPointCommand(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "tipping-point", "--parameter", "surcharge_rate")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, out, "surcharge_rate")

	out, _, code = execute(t, "tipping-point", "--goal", "maximize_net", "--format", "json")
	require.Equal(t, 0, code)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "surcharge_rate", result["parameter"])
	assert.Equal(t, "maximize_net", result["goal"])
	assert.Equal(t, true, result["success"])

	_, stderr, code := execute(t, "tipping-point", "--goal", "target_net")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "target")

	_, _, code = execute(t, "tipping-point", "--goal", "sideways")
	assert.Equal(t, 1, code)
}

func TestTippingPointCommand_All(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "tipping-point", "--all", "--parameters", "surcharge_rate,migration_elasticity", "--format", "json")
	require.Equal(t, 0, code)

	var mr struct {
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &mr))
	require.Len(t, mr.Results, 2)
	assert.Equal(t, "surcharge_rate", mr.Results[0]["parameter"])
	assert.Equal(t, "migration_elasticity", mr.Results[1]["parameter"])
}

func TestValidateCommand(t *testing.T) {
	dir := isolate(t)
	path := writeRunFile(t, dir)

	out, _, code := execute(t, "validate", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "scenarios: 3")
	assert.Contains(t, out, "millionaires_static: 2.00% surcharge above $1,000,000, static preset")
	assert.Contains(t, out, "custom_response: 3.00% surcharge above $2,000,000, custom behavioral parameters")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scenarios: []\n"), 0644))
	_, stderr, code := execute(t, "validate", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no scenarios")

	_, _, code = execute(t, "validate")
	assert.Equal(t, 1, code)
}

func TestDatasetsCommand(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "datasets")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "TAX YEAR")
	assert.Contains(t, out, "ty2021")
	assert.Contains(t, out, "ty2022 *")
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "revimpact dev")
}

func TestInvalidSettings(t *testing.T) {
	isolate(t)

	_, stderr, code := execute(t, "--log-format", "xml", "datasets")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "log.format")
}
