package service

import (
	"context"
	"strings"

	"github.com/MimeLyc/dreamsense/internal/dream"
	"github.com/MimeLyc/dreamsense/pkg/log"
)

// InterpretService answers with the remote interpreter when one is set and
// falls back to the local dictionary otherwise or on any remote failure.
type InterpretService struct {
	dicts  dictionarySource
	remote Interpreter
}

// NewInterpretService builds the service. remote may be nil.
func NewInterpretService(dicts dictionarySource, remote Interpreter) *InterpretService {
	return &InterpretService{
		dicts:  dicts,
		remote: remote,
	}
}

// Interpret never fails; a blank dream skips the remote call.
func (s *InterpretService) Interpret(ctx context.Context, dreamText string) dream.Result {
	if s.remote != nil && strings.TrimSpace(dreamText) != "" {
		result, err := s.remote.Interpret(ctx, dreamText)
		if err == nil {
			log.Info("Interpreted dream remotely with %d symbols", len(result.Symbols))
			return result
		}
		LogFallback(err)
	}

	result := dream.Interpret(dreamText, s.dicts.Current())
	log.Info("Interpreted dream locally with %d symbols", len(result.Symbols))
	return result
}

// Dictionary returns the dictionary snapshot in use.
func (s *InterpretService) Dictionary() *dream.Dictionary {
	return s.dicts.Current()
}

// RemoteEnabled reports whether a remote interpreter is configured.
func (s *InterpretService) RemoteEnabled() bool {
	return s.remote != nil
}
