package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/datastore"
	"github.com/2beens/fitcoach/internal/fitness"
	"github.com/2beens/fitcoach/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeDataFile(t *testing.T, doc *fitness.Document) string {
	t.Helper()
	data, err := datastore.Encode(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "fitness_data.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func testDocument() *fitness.Document {
	doc := fitness.NewDocument()
	doc.PRs["Leg Press"] = 270
	doc.History = append(doc.History, fitness.WorkoutLogEntry{
		Date: "2026-03-03",
		Day:  "Tuesday",
		Exercises: map[string]fitness.LogValue{
			"Leg Press":   fitness.Numeric(270),
			"Calf Raises": fitness.Text("3x20"),
		},
	})
	doc.BodyWeight = append(doc.BodyWeight, fitness.WeightEntry{Date: "2026-03-03", Weight: 229.5})
	return doc
}

func TestHashPassword(t *testing.T) {
	out, err := runCmd(t, "", "hash-password", "testpass")
	require.NoError(t, err)
	assert.True(t, pkg.CheckPasswordHash("testpass", strings.TrimSpace(out)))

	out, err = runCmd(t, "fromstdin\n", "hash-password")
	require.NoError(t, err)
	assert.True(t, pkg.CheckPasswordHash("fromstdin", strings.TrimSpace(out)))

	_, err = runCmd(t, "", "hash-password")
	assert.EqualError(t, err, "password empty")
}

func TestOneRepMax(t *testing.T) {
	out, err := runCmd(t, "", "onerepmax", "--weight", "100", "--reps", "10")
	require.NoError(t, err)
	assert.Equal(t, "Estimated 1RM: 133 lbs\n", out)

	_, err = runCmd(t, "", "onerepmax", "--weight", "100")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	path := writeDataFile(t, testDocument())

	out, err := runCmd(t, "", "export", "--data", path, "--config", "missing.toml")
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(content), out)

	out, err = runCmd(t, "", "export", "--data", path, "--config", "missing.toml", "--format", "yaml")
	require.NoError(t, err)
	var exported map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &exported))
	assert.Equal(t, map[string]any{"Leg Press": 270}, exported["prs"])
	assert.Contains(t, out, "Calf Raises: 3x20")

	_, err = runCmd(t, "", "export", "--data", path, "--config", "missing.toml", "--format", "xml")
	assert.EqualError(t, err, "unknown format: xml")
}

func TestExport_NoDataSource(t *testing.T) {
	_, err := runCmd(t, "", "export", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, errMissingConfig)
}

func TestRenderStatus(t *testing.T) {
	// wednesday, the day after the last workout
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	status := renderStatus(testDocument(), now)
	assert.Contains(t, status, "FITCOACH STATUS")
	assert.Contains(t, status, "1 days")
	assert.Contains(t, status, "229.5 lbs")
	assert.Contains(t, status, "Leg Press")
	assert.Contains(t, status, "(next: 283)")

	empty := renderStatus(fitness.NewDocument(), now)
	assert.Contains(t, empty, "No weight data yet.")
	assert.Contains(t, empty, "No PRs yet.")
}
