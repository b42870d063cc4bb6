package command

// root.go defines the root command for chatcli and its global flags.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "chatcli",
	Short: "chatcli - terminal client for the GoChat bot",
	Long: `chatcli connects to a GoChat bot server over WebSocket. Lines typed on
standard input are sent as chat messages; echoes and bot replies are printed
as they arrive.

Use "chatcli connect" to start a session.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "ws://localhost:3000/ws", "WebSocket URL of the chat server")
}
