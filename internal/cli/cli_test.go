package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is a config file pointing at a per-test database with a
// fixed administrator account.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vestd.yaml")
	cfg := "database: " + filepath.Join(dir, "ledger.db") + "\nadmin: root\nlog_level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

// execute runs the CLI once against the given config, returning
// combined stdout and the command error.
func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestGrantCommand(t *testing.T) {
	cfg := testEnv(t)

	out, err := execute(t, cfg, "grant", "alice", "1000000")
	require.NoError(t, err)
	assert.Contains(t, out, "granted 1,000,000 options to alice")
}

func TestGrantCommand_JSONFormat(t *testing.T) {
	cfg := testEnv(t)

	out, err := execute(t, cfg, "grant", "alice", "500", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Account string `json:"account"`
		Granted uint64 `json:"granted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "alice", result.Account)
	assert.Equal(t, uint64(500), result.Granted)
}

func TestGrantCommand_NonAdminRejected(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100", "--as", "mallory")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGrantCommand_BadAmount(t *testing.T) {
	cfg := testEnv(t)

	for _, amount := range []string{"zero", "1.5", "ten"} {
		_, err := execute(t, cfg, "grant", "alice", amount)
		require.Error(t, err, "amount %q", amount)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	}
}

func TestTransferCommand_ZeroAmountRejected(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)

	_, err = execute(t, cfg, "transfer", "alice", "0", "--as", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestScheduleCommand(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)

	out, err := execute(t, cfg, "schedule", "alice", "+720h")
	require.NoError(t, err)
	assert.Contains(t, out, "alice vests at")
}

func TestScheduleCommand_PastDeadlineRejected(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)

	_, err = execute(t, cfg, "schedule", "alice", "2020-01-01T00:00:00Z")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestScheduleCommand_NoGrant(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "schedule", "nobody", "+1h")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestVestCommand_RequiresActingAccount(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "vest")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVestCommand_NothingDue(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)
	_, err = execute(t, cfg, "schedule", "alice", "+720h")
	require.NoError(t, err)

	out, err := execute(t, cfg, "vest", "--as", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing due for alice")
}

func TestVestCommand_NoSchedule(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)

	_, err = execute(t, cfg, "vest", "--as", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestExerciseCommand_NothingVested(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)

	_, err = execute(t, cfg, "exercise", "--as", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestTransferCommand_InsufficientVested(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)
	_, err = execute(t, cfg, "grant", "bob", "100")
	require.NoError(t, err)

	_, err = execute(t, cfg, "transfer", "bob", "50", "--as", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestShowCommand(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "2500")
	require.NoError(t, err)

	out, err := execute(t, cfg, "show", "alice", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Account   string `json:"account"`
		Granted   uint64 `json:"granted"`
		Deadline  string `json:"deadline"`
		Vested    uint64 `json:"vested"`
		Exercised uint64 `json:"exercised"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "alice", result.Account)
	assert.Equal(t, uint64(2500), result.Granted)
	assert.Equal(t, "never", result.Deadline)
	assert.Zero(t, result.Vested)
	assert.Zero(t, result.Exercised)
}

func TestShowCommand_OtherAccountRejected(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)
	_, err = execute(t, cfg, "grant", "bob", "100")
	require.NoError(t, err)

	_, err = execute(t, cfg, "show", "alice", "--as", "bob")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCountdownCommand(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)
	_, err = execute(t, cfg, "schedule", "alice", "+720h")
	require.NoError(t, err)

	out, err := execute(t, cfg, "countdown", "--as", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "alice vests in")
}

func TestCountdownCommand_NoSchedule(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)

	_, err = execute(t, cfg, "countdown", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestLogCommand(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)
	_, err = execute(t, cfg, "grant", "bob", "200")
	require.NoError(t, err)

	out, err := execute(t, cfg, "log")
	require.NoError(t, err)
	assert.Contains(t, out, "grant-issued")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")

	out, err = execute(t, cfg, "log", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")
}

func TestLogCommand_Filters(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "grant", "alice", "100")
	require.NoError(t, err)
	_, err = execute(t, cfg, "grant", "bob", "200")
	require.NoError(t, err)

	out, err := execute(t, cfg, "log", "--kind", "grant-issued", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")

	out, err = execute(t, cfg, "log", "--kind", "vesting-settled")
	require.NoError(t, err)
	assert.NotContains(t, out, "alice")

	out, err = execute(t, cfg, "log", "--after-seq", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "bob")
	assert.NotContains(t, out, "alice")
}

func TestLogCommand_BadTimeBound(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "log", "--since", "yesterday")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestApplyCommand(t *testing.T) {
	cfg := testEnv(t)
	planPath := filepath.Join(filepath.Dir(cfg), "grants.cue")
	plan := `plan: steps: [
	{grant: {account: "alice", amount: 10000}},
	{grant: {account: "bob", amount: 5000}},
]
`
	require.NoError(t, os.WriteFile(planPath, []byte(plan), 0o644))

	out, err := execute(t, cfg, "apply", planPath)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 2 of 2 plan steps")
}

func TestApplyCommand_StopsAtFirstRejection(t *testing.T) {
	cfg := testEnv(t)
	planPath := filepath.Join(filepath.Dir(cfg), "grants.cue")
	plan := `plan: steps: [
	{grant: {account: "alice", amount: 100}},
	{schedule: {account: "nobody", deadline: 4102444800}},
	{grant: {account: "bob", amount: 100}},
]
`
	require.NoError(t, os.WriteFile(planPath, []byte(plan), 0o644))

	out, err := execute(t, cfg, "apply", planPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "applied 1 of 3 plan steps")

	// The first step still stands.
	out, err = execute(t, cfg, "show", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "granted:   100")
}

func TestApplyCommand_MissingPlan(t *testing.T) {
	cfg := testEnv(t)

	_, err := execute(t, cfg, "apply", filepath.Join(filepath.Dir(cfg), "absent.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTimeCommand(t *testing.T) {
	cfg := testEnv(t)

	out, err := execute(t, cfg, "time", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Unix int64 `json:"unix"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Greater(t, result.Unix, int64(0))
}
