package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/aria/engine"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a conversation on stdin. Besides messages, the prompt accepts:

  /reset      clear the conversation
  /stats      show memory statistics
  /history N  show the last N messages (default 6)
  /functions  list callable functions
  /quit       exit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a single message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var askJSON bool

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full turn result as JSON")
}

// newEngine builds a single-session engine with the shared knowledge store.
// The returned closer releases the store.
func newEngine(ctx context.Context) (*engine.Engine, func() error, error) {
	app, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := openKnowledge(ctx, app.Engine)
	if err != nil {
		return nil, nil, err
	}

	e, err := engine.New(app.Engine, engine.WithSearcher(store))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return e, store.Close, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, closeStore, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := e.ProcessTurn(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintln(out, res.Response)
	return nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, closeStore, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	return chatLoop(ctx, e, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chatLoop(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Aria is ready. Type /quit to exit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if arg, ok := strings.CutPrefix(line, "/history"); ok && (arg == "" || arg[0] == ' ') {
			if err := printHistory(out, e, strings.TrimSpace(arg)); err != nil {
				fmt.Fprintln(out, err)
			}
			continue
		}

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			e.Reset(ctx)
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		case "/stats":
			fmt.Fprintln(out, e.Stats().Summary)
			continue
		case "/functions":
			for _, fn := range e.Functions() {
				fmt.Fprintf(out, "  %-12s %s\n", fn.Name, fn.Description)
			}
			continue
		}

		res, err := e.ProcessTurn(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Fprintln(out, res.Response)
	}
}

const defaultHistory = 6

func printHistory(out io.Writer, e *engine.Engine, arg string) error {
	n := defaultHistory
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			return fmt.Errorf("usage: /history [N], N a positive number")
		}
		n = v
	}

	msgs := e.Recent(n)
	if len(msgs) == 0 {
		fmt.Fprintln(out, "No conversation yet.")
		return nil
	}
	for _, msg := range msgs {
		fmt.Fprintf(out, "[%s] %s\n", msg.Role, msg.Content)
	}
	return nil
}
