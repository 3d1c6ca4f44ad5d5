package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okStep(name string, ran *[]string) Step {
	return Step{Name: name, Class: Fatal, Run: func(context.Context) (string, error) {
		*ran = append(*ran, name)
		return name + " done", nil
	}}
}

func TestRunRecordsResultsInOrder(t *testing.T) {
	var ran []string
	var observed []string
	steps := []Step{okStep("a", &ran), okStep("b", &ran), okStep("c", &ran)}

	results, err := Run(context.Background(), steps, func(r StepResult) { observed = append(observed, r.Name) })
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ran)
	assert.Equal(t, []string{"a", "b", "c"}, observed)
	require.Len(t, results, 3)
	assert.Equal(t, StepResult{Name: "b", Outcome: Success, Detail: "b done"}, results[1])
}

func TestRunFatalStopsPipeline(t *testing.T) {
	var ran []string
	boom := errors.New("permission denied")
	steps := []Step{
		okStep("probe", &ran),
		{Name: "copy", Class: Fatal, Run: func(context.Context) (string, error) { return "", boom }},
		okStep("after", &ran),
	}

	results, err := Run(context.Background(), steps, nil)
	require.Error(t, err)
	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "copy", fatal.Step)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, results, fatal.Results)
	assert.Equal(t, []string{"probe"}, ran)
	require.Len(t, results, 2)
	assert.Equal(t, Failed, results[1].Outcome)
	assert.Equal(t, "permission denied", results[1].Detail)
}

func TestRunDegradableContinues(t *testing.T) {
	var ran []string
	steps := []Step{
		{Name: "dep", Class: Degradable, Run: func(context.Context) (string, error) {
			return "AutoHotkey missing", errors.New("not found")
		}},
		okStep("after", &ran),
	}

	results, err := Run(context.Background(), steps, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, ran)
	assert.Equal(t, Warning, results[0].Outcome)
	assert.Equal(t, "AutoHotkey missing", results[0].Detail)
	assert.EqualError(t, results[0].Err, "not found")
}

func TestRunSkipConsultsPriorResults(t *testing.T) {
	ran := false
	steps := []Step{
		{Name: "dep", Class: Degradable, Run: func(context.Context) (string, error) { return "", errors.New("x") }},
		{
			Name:  "monitor",
			Class: Degradable,
			Skip: func(prior Results) (string, bool) {
				return "dependency missing", !prior.Succeeded("dep")
			},
			Run: func(context.Context) (string, error) {
				ran = true
				return "", nil
			},
		},
	}

	results, err := Run(context.Background(), steps, nil)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, StepResult{Name: "monitor", Outcome: Skipped, Detail: "dependency missing"}, results[1])
}

func TestRunCanceledContext(t *testing.T) {
	var ran []string
	ctx, cancel := context.WithCancel(context.Background())
	steps := []Step{
		{Name: "first", Class: Fatal, Run: func(context.Context) (string, error) {
			cancel()
			return "", nil
		}},
		okStep("second", &ran),
	}

	results, err := Run(ctx, steps, nil)
	require.ErrorIs(t, err, context.Canceled)
	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "second", fatal.Step)
	assert.Len(t, results, 1)
	assert.Empty(t, ran)
}

func TestResultsLookup(t *testing.T) {
	r := Results{{Name: "a", Outcome: Warning}, {Name: "b", Outcome: Success}}
	assert.True(t, r.Succeeded("b"))
	assert.False(t, r.Succeeded("a"))
	assert.False(t, r.Succeeded("missing"))
	_, ok := r.Lookup("missing")
	assert.False(t, ok)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}
