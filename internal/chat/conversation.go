// Package chat keeps a DreamSense conversation between a dreamer and the bot.
package chat

import (
	"context"
	"strings"

	"github.com/MimeLyc/dreamsense/internal/dream"
	"github.com/MimeLyc/dreamsense/internal/service"
	"github.com/MimeLyc/dreamsense/pkg/log"
)

const (
	Greeting = "Hello! I'm DreamSense, your personal dream interpreter. Share your dream with me, and I'll help you uncover its meaning. What did you dream about?"

	ConnectionNotice = "I'm having trouble connecting to my advanced interpretation system. Let me try a simpler approach..."

	symbolsHeader = "Key symbols in your dream:\n"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message IDs are 1-based positions in the conversation.
type Message struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// Conversation is not safe for concurrent use.
type Conversation struct {
	dict     *dream.Dictionary
	remote   service.Interpreter
	messages []Message
}

// NewConversation starts a conversation with the greeting. A nil remote keeps it offline.
func NewConversation(dict *dream.Dictionary, remote service.Interpreter) *Conversation {
	c := &Conversation{
		dict:   dict,
		remote: remote,
	}
	c.append(SenderBot, Greeting)
	return c
}

// Offline reports whether only the local dictionary is used.
func (c *Conversation) Offline() bool {
	return c.remote == nil
}

// Send records the dream and the bot's replies, returning the messages this call appended.
// Blank input is ignored.
func (c *Conversation) Send(ctx context.Context, text string) []Message {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	start := len(c.messages)
	c.append(SenderUser, text)

	var result dream.Result
	if c.remote != nil {
		var err error
		result, err = c.remote.Interpret(ctx, text)
		if err != nil {
			service.LogFallback(err)
			c.append(SenderBot, ConnectionNotice)
			result = dream.Interpret(text, c.dict)
		}
	} else {
		result = dream.Interpret(text, c.dict)
	}

	log.Debug("Conversation reply from %s with %d symbols", result.Source, len(result.Symbols))
	c.append(SenderBot, result.Interpretation)
	if len(result.Symbols) > 0 {
		c.append(SenderBot, symbolsText(result.Terms()))
	}

	return c.copyFrom(start)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	return c.copyFrom(0)
}

func (c *Conversation) append(sender Sender, text string) {
	c.messages = append(c.messages, Message{
		ID:     len(c.messages) + 1,
		Text:   text,
		Sender: sender,
	})
}

func (c *Conversation) copyFrom(start int) []Message {
	ret := make([]Message, len(c.messages)-start)
	copy(ret, c.messages[start:])
	return ret
}

func symbolsText(terms []string) string {
	var b strings.Builder
	b.WriteString(symbolsHeader)
	for i, term := range terms {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(term)
	}
	return b.String()
}
