package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/Tyrowin/gochat-bot/internal/server"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Open an interactive chat session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		origin, _ := cmd.Flags().GetString("origin")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return runSession(ctx, serverURL, origin, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	connectCmd.Flags().String("origin", "", "Origin header to send with the handshake")
	rootCmd.AddCommand(connectCmd)
}

// runSession dials url, prints every incoming chat message, and sends each
// non-empty line from in until in is exhausted, /quit is typed, or ctx ends.
func runSession(ctx context.Context, url, origin string, in io.Reader, out io.Writer) error {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}

	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	defer conn.Close()

	fmt.Fprintf(out, "Connected to %s. Type your messages (or /quit to exit)\n\n", url)

	done := make(chan error, 1)
	go func() {
		done <- receive(conn, out)
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return closeSession(conn)
		case err := <-done:
			return err
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/quit" {
				return closeSession(conn)
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			env := server.Envelope{Event: server.EventChatMessage, Data: server.ChatMessage{Text: line}}
			if err := conn.WriteJSON(env); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
}

func receive(conn *websocket.Conn, out io.Writer) error {
	for {
		var env server.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("receive message: %w", err)
		}
		if env.Event == server.EventChatMessage {
			printMessage(out, env.Data)
		}
	}
}

func printMessage(out io.Writer, msg server.ChatMessage) {
	stamp := msg.Timestamp
	if t, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
		stamp = t.Local().Format("15:04:05")
	}

	switch msg.Sender {
	case server.RoleBot:
		color.New(color.FgCyan).Fprintf(out, "[%s] bot: %s\n", stamp, msg.Text)
	case server.RoleUser:
		color.New(color.FgHiBlack).Fprintf(out, "[%s] you: %s\n", stamp, msg.Text)
	default:
		color.New(color.FgYellow).Fprintf(out, "[%s] %s\n", stamp, msg.Text)
	}
}

func closeSession(conn *websocket.Conn) error {
	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}
