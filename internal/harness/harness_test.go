package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintp(n uint64) *uint64 { return &n }

func TestRun_GrantOnly(t *testing.T) {
	result, err := Run(&Scenario{
		Name: "grant_only",
		Steps: []Step{
			{Op: "grant", Account: "alice", Amount: 1000},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	require.Len(t, result.Trace, 1)

	rec := result.Trace[0]
	assert.Equal(t, int64(1), rec.Seq)
	assert.Equal(t, "op-1", rec.OpToken)
	assert.Equal(t, "grant-issued", rec.Kind)
	assert.Equal(t, "alice", rec.Account)
	assert.Equal(t, uint64(1000), rec.Amount)
	assert.Equal(t, scenarioStart.Unix(), rec.At)
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	s := &Scenario{
		Name: "repeatable",
		Steps: []Step{
			{Op: "grant", Account: "alice", Amount: 100},
			{Op: "schedule", Account: "alice", Deadline: 10},
			{Op: "advance", Seconds: 11},
			{Op: "vest", As: "alice"},
		},
	}

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_ExpectedRejection(t *testing.T) {
	result, err := Run(&Scenario{
		Name: "rejection",
		Steps: []Step{
			{Op: "grant", As: "mallory", Account: "alice", Amount: 1,
				Expect: &ExpectClause{Error: "UNAUTHORIZED"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Trace)
}

func TestRun_UnexpectedRejectionFails(t *testing.T) {
	result, err := Run(&Scenario{
		Name: "surprise_rejection",
		Steps: []Step{
			{Op: "vest", As: "nobody"},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "UNAUTHORIZED")
}

func TestRun_WrongMovedFails(t *testing.T) {
	result, err := Run(&Scenario{
		Name: "wrong_moved",
		Steps: []Step{
			{Op: "grant", Account: "alice", Amount: 100},
			{Op: "schedule", Account: "alice", Deadline: 10},
			{Op: "advance", Seconds: 11},
			{Op: "vest", As: "alice", Expect: &ExpectClause{Moved: uintp(99)}},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "moved 100, want 99")
}

func TestRun_CustomAdmin(t *testing.T) {
	result, err := Run(&Scenario{
		Name:  "custom_admin",
		Admin: "hr",
		Steps: []Step{
			{Op: "grant", As: "hr", Account: "alice", Amount: 10},
			{Op: "grant", As: "root", Account: "alice", Amount: 10,
				Expect: &ExpectClause{Error: "UNAUTHORIZED"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	require.Len(t, result.Trace, 1)
}

func TestRun_AssertionFailureCollected(t *testing.T) {
	result, err := Run(&Scenario{
		Name: "bad_assertion",
		Steps: []Step{
			{Op: "grant", Account: "alice", Amount: 100},
		},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Kind: "grant-issued", Count: 2},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "trace_count")
}

func TestRun_SharedOpToken(t *testing.T) {
	// A settle folded into an exercise shares the exercise's token.
	result, err := Run(&Scenario{
		Name: "shared_token",
		Steps: []Step{
			{Op: "grant", Account: "alice", Amount: 100},
			{Op: "schedule", Account: "alice", Deadline: 10},
			{Op: "advance", Seconds: 11},
			{Op: "exercise", As: "alice", Expect: &ExpectClause{Moved: uintp(100)}},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Passed)
	require.Len(t, result.Trace, 3)
	assert.Equal(t, "vesting-settled", result.Trace[1].Kind)
	assert.Equal(t, "options-exercised", result.Trace[2].Kind)
	assert.Equal(t, result.Trace[1].OpToken, result.Trace[2].OpToken)
}

func TestRun_InvalidScenario(t *testing.T) {
	_, err := Run(&Scenario{Name: "no_steps"})
	require.Error(t, err)
}
