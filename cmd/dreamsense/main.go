package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MimeLyc/dreamsense/internal/chat"
	"github.com/MimeLyc/dreamsense/internal/config"
	"github.com/MimeLyc/dreamsense/internal/remote"
	"github.com/MimeLyc/dreamsense/internal/service"
	"github.com/MimeLyc/dreamsense/pkg/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type chatFlags struct {
	apiURL     string
	offline    bool
	dictionary string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &chatFlags{}

	cmd := &cobra.Command{
		Use:   "dreamsense",
		Short: "Chat with DreamSense, your personal dream interpreter",
		Long: `Chat with DreamSense from the terminal.

Dreams are sent to the DreamSense API. When it cannot be reached the
built-in dictionary answers instead. Type "exit" or "quit" to leave.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.apiURL, "api-url", "", "base URL of the DreamSense API (default $DREAMSENSE_API_URL or http://localhost:8000)")
	cmd.Flags().BoolVar(&flags.offline, "offline", false, "interpret with the local dictionary only")
	cmd.Flags().StringVar(&flags.dictionary, "dictionary", "", "JSON or CSV dictionary file for local interpretation")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output regardless of LOG_LEVEL")

	return cmd
}

func runChat(cmd *cobra.Command, flags *chatFlags) error {
	var opts []config.Option
	if flags.apiURL != "" {
		opts = append(opts, config.WithClientAPIURL(flags.apiURL))
	}
	if flags.dictionary != "" {
		opts = append(opts, config.WithDictionaryFile(flags.dictionary))
	}

	cfg, err := config.NewFromEnv(opts...)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	closeLog, err := log.Setup(cfg.Log.Level, cfg.Log.File, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeLog()
	if flags.verbose {
		log.GetLogger().SetLevel(log.LevelDebug)
	}

	store, err := service.NewDictionaryStore(cfg.Dictionary, nil)
	if err != nil {
		return fmt.Errorf("%w (advice: %s)", err, service.Advice(err))
	}

	var interp service.Interpreter
	if !flags.offline {
		client := remote.NewClient(cfg.Client.APIURL, time.Duration(cfg.Client.Timeout)*time.Second)
		log.Debug("Sending dreams to %s", client.BaseURL())
		interp = client
	}
	conv := chat.NewConversation(store.Current(), interp)
	if conv.Offline() {
		log.Info("Offline: interpreting with %d local dictionary entries", store.Current().Len())
	}

	return chatLoop(cmd, conv, cmd.InOrStdin(), cmd.OutOrStdout())
}

// maxDreamLine bounds one line of chat input.
const maxDreamLine = 1 << 20

func chatLoop(cmd *cobra.Command, conv *chat.Conversation, in io.Reader, out io.Writer) error {
	for _, msg := range conv.Messages() {
		printBot(out, msg)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDreamLine)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "exit", "quit":
			return nil
		}

		for _, msg := range conv.Send(cmd.Context(), line) {
			if msg.Sender == chat.SenderBot {
				printBot(out, msg)
			}
		}
	}
}

func printBot(out io.Writer, msg chat.Message) {
	fmt.Fprintf(out, "DreamSense: %s\n\n", msg.Text)
}
