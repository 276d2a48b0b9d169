package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/MimeLyc/dreamsense/internal/dream"
	"github.com/MimeLyc/dreamsense/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	result dream.Result
	err    error
	calls  int
}

func (f *fakeRemote) Interpret(_ context.Context, _ string) (dream.Result, error) {
	f.calls++
	return f.result, f.err
}

func texts(msgs []Message) []string {
	ret := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ret = append(ret, m.Text)
	}
	return ret
}

func TestConversation_Greeting(t *testing.T) {
	c := NewConversation(dream.Default(), nil)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{ID: 1, Text: Greeting, Sender: SenderBot}, msgs[0])
	assert.True(t, c.Offline())
}

func TestConversation_BlankInputIgnored(t *testing.T) {
	remote := &fakeRemote{}
	c := NewConversation(dream.Default(), remote)

	assert.Empty(t, c.Send(context.Background(), "   "))
	assert.Len(t, c.Messages(), 1)
	assert.Equal(t, 0, remote.calls)
}

func TestConversation_Offline(t *testing.T) {
	c := NewConversation(dream.Default(), nil)

	added := c.Send(context.Background(), "I was flying over water")
	require.Len(t, added, 3)

	assert.Equal(t, Message{ID: 2, Text: "I was flying over water", Sender: SenderUser}, added[0])
	assert.Equal(t, SenderBot, added[1].Sender)
	assert.Contains(t, added[1].Text, `Regarding the "flying" in your dream:`)
	assert.Equal(t, "Key symbols in your dream:\n• flying\n• water", added[2].Text)
	assert.Equal(t, 4, added[2].ID)
}

func TestConversation_NoSymbols(t *testing.T) {
	c := NewConversation(dream.Default(), nil)

	added := c.Send(context.Background(), "I was swimming with dolphins")
	assert.Equal(t, []string{"I was swimming with dolphins", dream.GenericInterpretation}, texts(added))
}

func TestConversation_Remote(t *testing.T) {
	remote := &fakeRemote{result: dream.Result{
		Interpretation: "Your dream speaks of freedom.",
		Symbols:        []dream.Symbol{{Term: "flying", Details: "Flying...", Score: 1}},
		Source:         dream.SourceRemote,
	}}
	c := NewConversation(dream.Default(), remote)

	added := c.Send(context.Background(), "I was flying")
	assert.Equal(t, []string{
		"I was flying",
		"Your dream speaks of freedom.",
		"Key symbols in your dream:\n• flying",
	}, texts(added))
	assert.Equal(t, 1, remote.calls)
	assert.False(t, c.Offline())
}

func TestConversation_RemoteFailureFallsBack(t *testing.T) {
	remote := &fakeRemote{err: service.WrapError(errors.New("connection refused"), service.ErrNetwork, "failed to reach interpretation API")}
	c := NewConversation(dream.Default(), remote)

	added := c.Send(context.Background(), "I was falling")
	require.Len(t, added, 4)

	assert.Equal(t, ConnectionNotice, added[1].Text)
	assert.Equal(t, dream.Interpret("I was falling", dream.Default()).Interpretation, added[2].Text)
	assert.Equal(t, "Key symbols in your dream:\n• falling", added[3].Text)
}

func TestConversation_MessagesIsCopy(t *testing.T) {
	c := NewConversation(dream.Default(), nil)
	c.Send(context.Background(), "I was flying")

	msgs := c.Messages()
	msgs[0].Text = "changed"

	assert.Equal(t, Greeting, c.Messages()[0].Text)
	for i, m := range c.Messages() {
		assert.Equal(t, i+1, m.ID)
	}
}
