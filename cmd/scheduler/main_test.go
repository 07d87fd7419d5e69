package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	var testCases = []struct {
		description       string
		args              []string
		expectConcurrency int
		expectTimeSlice   int
		expectErr         bool
	}{
		{description: "valid", args: []string{"2", "100"}, expectConcurrency: 2, expectTimeSlice: 100},
		{description: "missing", args: []string{"2"}, expectErr: true},
		{description: "too many", args: []string{"2", "1", "x"}, expectErr: true},
		{description: "non integer limit", args: []string{"two", "100"}, expectErr: true},
		{description: "non integer slice", args: []string{"2", "1.5"}, expectErr: true},
		{description: "zero limit parses", args: []string{"0", "100"}, expectConcurrency: 0, expectTimeSlice: 100},
	}
	for _, testCase := range testCases {
		concurrency, timeSlice, err := parseArgs(testCase.args)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectConcurrency, concurrency, testCase.description)
		assert.Equal(t, testCase.expectTimeSlice, timeSlice, testCase.description)
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"scheduler", "1"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: scheduler <concurrencyLimit> <timeSliceMillis>")
	assert.Empty(t, stdout.String())

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"scheduler", "0", "10"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "concurrency")
}

func TestRun_Session(t *testing.T) {
	t.Setenv(configEnvKey, "")
	input := strings.Join([]string{
		"submit true 2",
		"submit uname 9",
		"",
		"history",
		"bogus",
		"submit ",
	}, "\n") + "\n"
	var stdout, stderr bytes.Buffer
	code := run([]string{"scheduler", "1", "50"}, strings.NewReader(input), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Priority must be between 1 and 4. Defaulting to 1.")
	assert.Contains(t, out, "Process Name")
	assert.Contains(t, out, usageHint)
	assert.Contains(t, out, "Usage: submit <program> [priority]")
	assert.Contains(t, out, "Running Command 'uname' (PID: ")
	assert.Contains(t, out, "Running Command 'true' (PID: ")
	assert.Less(t, strings.Index(out, "Running Command 'uname'"), strings.Index(out, "Running Command 'true'"))
	assert.Contains(t, out, "** Process #2 **")
	assert.Contains(t, out, "Name:            uname")
}

func TestRun_CapacityFromConfig(t *testing.T) {
	URL := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(URL, []byte("scheduler:\n  capacity: 1\nlogging:\n  level: error\n"), 0o644))
	t.Setenv(configEnvKey, URL)

	var stdout, stderr bytes.Buffer
	code := run([]string{"scheduler", "2", "10"}, strings.NewReader("submit true\nsubmit true 3\n"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Command history limit reached.")
	assert.Contains(t, stdout.String(), "** Process #1 **")
	assert.NotContains(t, stdout.String(), "** Process #2 **")
}
