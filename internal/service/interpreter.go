package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MimeLyc/dreamsense/internal/dream"
	"github.com/MimeLyc/dreamsense/internal/llm"
	"github.com/MimeLyc/dreamsense/pkg/log"
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// noReferenceMaxTokens caps the reply when no dictionary entry applies; the
// model is only asked to say so.
const noReferenceMaxTokens = 200

// Interpreter produces an interpretation or fails.
type Interpreter interface {
	Interpret(ctx context.Context, dreamText string) (dream.Result, error)
}

type chatClient interface {
	ChatCompletion(ctx context.Context, messages []llm.Message, opts *llm.ChatCompletionOptions) (*llm.ChatResponse, error)
}

type dictionarySource interface {
	Current() *dream.Dictionary
}

// LLMInterpreter asks a chat model to interpret a dream using only the
// dictionary entries retrieved for it.
type LLMInterpreter struct {
	client chatClient
	dicts  dictionarySource
}

func NewLLMInterpreter(client chatClient, dicts dictionarySource) *LLMInterpreter {
	return &LLMInterpreter{
		client: client,
		dicts:  dicts,
	}
}

func (i *LLMInterpreter) Interpret(ctx context.Context, dreamText string) (dream.Result, error) {
	dict := i.dicts.Current()
	refs := dream.Retrieve(dreamText, dict, dream.DefaultTopK)

	opts := llm.NewChatCompletionOptions().
		WithSystemPrompt(buildSystemPrompt(refs, replyLanguage(dreamText, dict.Language())))
	if len(refs) == 0 {
		opts = opts.WithMaxTokens(noReferenceMaxTokens)
	}

	resp, err := i.client.ChatCompletion(ctx, []llm.Message{{Role: "user", Content: "Dream: " + dreamText}}, opts)
	if err != nil {
		return dream.Result{}, classifyLLMError(err)
	}
	if len(resp.Choices) == 0 {
		return dream.Result{}, NewError(ErrEmptyResponse, "model returned no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		log.Warn("Interpretation cut at the token limit (%d references)", len(refs))
	}

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return dream.Result{}, NewError(ErrEmptyResponse, "model returned an empty interpretation")
	}

	return dream.Result{
		Interpretation: mentionSymbols(content, refs),
		Symbols:        dream.SymbolsFrom(refs),
		Source:         dream.SourceRemote,
	}, nil
}

func classifyLLMError(err error) *Error {
	var apiErr *llm.Error
	if errors.As(err, &apiErr) {
		return WrapError(err, ErrAPI, "LLM rejected the request")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return WrapError(err, ErrNetwork, "LLM unreachable")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return WrapError(err, ErrNetwork, "LLM request cancelled")
	}
	return WrapError(err, ErrAPI, "LLM request failed")
}

func buildSystemPrompt(refs []dream.Scored, replyLang string) string {
	var prompt strings.Builder

	prompt.WriteString("You are DreamSense, a dream interpreter that ONLY uses the provided dream dictionary references to interpret dreams.\n")
	prompt.WriteString("You have NO knowledge of dream interpretation beyond what is explicitly provided in these references.\n")
	prompt.WriteString("NEVER make up interpretations or use your general knowledge about dreams.\n\n")

	prompt.WriteString("STRICT RULES:\n")
	prompt.WriteString("1. ONLY use the provided dream dictionary references for your interpretation\n")
	prompt.WriteString("2. If a symbol is not in the references, do NOT interpret it\n")
	prompt.WriteString("3. Structure your response to directly reference the symbols found in the dream\n")
	prompt.WriteString("4. Begin by mentioning which symbols from the dream dictionary you identified\n")
	prompt.WriteString("5. For each symbol, explain its meaning according to the dream dictionary ONLY\n\n")

	prompt.WriteString("Here are your ONLY references for dream interpretation:\n\n")
	if len(refs) == 0 {
		prompt.WriteString("No relevant dream symbols found.\n")
	} else {
		prompt.WriteString("Dream Dictionary References:\n\n")
		for _, ref := range refs {
			fmt.Fprintf(&prompt, "Symbol: %s\nMeaning: %s\n\n", ref.Term, ref.Description)
		}
	}

	if replyLang != "" {
		fmt.Fprintf(&prompt, "\nThe dream is written in %s. Reply in %s.\n", replyLang, replyLang)
	}

	return prompt.String()
}

// replyLanguage names the dream's language when it is reliably detected and
// differs from the dictionary's language. It returns "" otherwise.
func replyLanguage(text string, dictLang language.Tag) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	tag, err := language.Parse(info.Lang.Iso6391())
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	dictBase, _ := dictLang.Base()
	if base == dictBase {
		return ""
	}
	return display.Tags(language.English).Name(tag)
}

// mentionSymbols prefixes the model's answer with the references when none of
// the first three terms shows up in it.
func mentionSymbols(content string, refs []dream.Scored) string {
	if len(refs) == 0 {
		return content
	}

	lowered := strings.ToLower(content)
	for idx, ref := range refs {
		if idx >= 3 {
			break
		}
		if strings.Contains(lowered, strings.ToLower(ref.Term)) {
			return content
		}
	}

	var b strings.Builder
	b.WriteString("Based on your dream, I've identified these important symbols:\n\n")
	for _, ref := range refs {
		fmt.Fprintf(&b, "• %s: %s\n\n", ref.Term, ref.Description)
	}
	b.WriteString("Considering these symbols together, your dream suggests: ")
	b.WriteString(content)
	return b.String()
}
