package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MimeLyc/dreamsense/internal/dream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInterpreter struct {
	result dream.Result
	err    error
	calls  int
}

func (f *fakeInterpreter) Interpret(context.Context, string) (dream.Result, error) {
	f.calls++
	return f.result, f.err
}

func TestInterpretService_RemoteSuccess(t *testing.T) {
	remote := &fakeInterpreter{result: dream.Result{Interpretation: "remote answer", Source: dream.SourceRemote}}
	svc := NewInterpretService(defaultDicts(), remote)

	res := svc.Interpret(context.Background(), "I was flying")
	assert.Equal(t, "remote answer", res.Interpretation)
	assert.Equal(t, dream.SourceRemote, res.Source)
	assert.True(t, svc.RemoteEnabled())
}

func TestInterpretService_FallsBackOnRemoteError(t *testing.T) {
	remote := &fakeInterpreter{err: NewError(ErrNetwork, "LLM unreachable")}
	svc := NewInterpretService(defaultDicts(), remote)

	res := svc.Interpret(context.Background(), "I was flying above a city")
	require.Equal(t, 1, remote.calls)
	assert.Equal(t, dream.SourceLocal, res.Source)
	assert.Equal(t, []string{"flying"}, res.Terms())
	assert.Contains(t, res.Interpretation, `Regarding the "flying" in your dream:`)
}

func TestInterpretService_LocalOnly(t *testing.T) {
	svc := NewInterpretService(defaultDicts(), nil)

	res := svc.Interpret(context.Background(), "I was swimming with dolphins")
	assert.Equal(t, dream.GenericInterpretation, res.Interpretation)
	assert.Empty(t, res.Symbols)
	assert.False(t, svc.RemoteEnabled())
	assert.Equal(t, 6, svc.Dictionary().Len())
}

func TestInterpretService_BlankSkipsRemote(t *testing.T) {
	remote := &fakeInterpreter{err: errors.New("should not be called")}
	svc := NewInterpretService(defaultDicts(), remote)

	res := svc.Interpret(context.Background(), "   ")
	assert.Equal(t, 0, remote.calls)
	assert.Equal(t, dream.GenericInterpretation, res.Interpretation)
}
