package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReferenceCasesPass(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, filepath.Join("testdata", "reference_cases.csv"))

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Cases: 10")
}

func TestRun_WrongExpectationFails(t *testing.T) {
	path := writeCases(t, "bad,90,20,150,0.9,0.8,20,3000,,high_latitude,seasonal,0.9,9.9\n")

	var out bytes.Buffer
	code := run(&out, path)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "depth = 5.7 ft, want 9.9 ft")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_DomainErrorReported(t *testing.T) {
	path := writeCases(t, "zero_duration,90,20,0,0.9,0.8,20,3000,,high_latitude,seasonal,0.9,5.7\n")

	var out bytes.Buffer
	code := run(&out, path)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "freezing duration is zero")
}

func TestRun_MissingFile(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, filepath.Join(t.TempDir(), "absent.csv"))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FATAL: load cases")
}

func TestLoadCases_GroundTemperature(t *testing.T) {
	cases, err := loadCases(filepath.Join("testdata", "reference_cases.csv"))
	require.NoError(t, err)

	byName := make(map[string]refCase, len(cases))
	for _, c := range cases {
		byName[c.name] = c
	}

	ref := byName["fairbanks_reference"]
	assert.Nil(t, ref.inputs.GroundTemperature)
	assert.Equal(t, domain.LambdaHighLatitude, ref.inputs.Lambda)

	override := byName["ground_at_freezing"]
	require.NotNil(t, override.inputs.GroundTemperature)
	assert.InDelta(t, 32.0, *override.inputs.GroundTemperature, 1e-9)
}

func TestLoadCases_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,dry_density\nx,90\n"), 0o600))

	_, err := loadCases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadCases_BadNumber(t *testing.T) {
	path := writeCases(t, "bad,ninety,20,150,0.9,0.8,20,3000,,high_latitude,seasonal,0.9,5.7\n")

	_, err := loadCases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "dry_density")
}

func writeCases(t *testing.T, rows string) string {
	t.Helper()
	header := "name,dry_density,water_content,duration_days,n_factor,conductivity,mat_f,air_index,ground_temperature,lambda_variant,vs_method,expected_lambda,expected_depth_ft\n"
	path := filepath.Join(t.TempDir(), "cases.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+rows), 0o600))
	return path
}
