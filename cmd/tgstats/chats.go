package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tgstats/tgstats/internal/export"
)

var chatsCmd = &cobra.Command{
	Use:   "chats <export.json>",
	Short: "List the chats in an export",
	Args:  cobra.ExactArgs(1),
	RunE:  runChats,
}

func runChats(cmd *cobra.Command, args []string) error {
	chats, err := export.ParseExport(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tMESSAGES\tSPAN\tNAME")
	for _, c := range chats {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			c.ID, c.Type, len(c.Messages), chatSpan(c), c.Name)
	}
	return w.Flush()
}

// chatSpan formats the first and last message days of a chat.
func chatSpan(c export.Chat) string {
	if len(c.Messages) == 0 {
		return "-"
	}
	first := c.Messages[0].SendTime.Format("2006-01-02")
	last := c.Messages[len(c.Messages)-1].SendTime.Format("2006-01-02")
	if first == last {
		return first
	}
	return first + " .. " + last
}
