// Package queue implements "lc-platform queue send|receive", a QueueClient
// smoke test.
package queue

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stainedhead/lc-platform"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/cmd/lc-platform/common"
)

// NewCommand returns the "queue" command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Send and receive messages through the data-plane QueueClient",
	}
	cmd.AddCommand(newSendCommand())
	cmd.AddCommand(newReceiveCommand())
	return cmd
}

func newSendCommand() *cobra.Command {
	var queueName, body, groupID string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one message",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.ConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			facade, err := lcplatform.RuntimeFacadeWithLogger(cfg, common.Logger())
			if err != nil {
				return fmt.Errorf("building runtime facade: %w", err)
			}
			client, err := facade.Queue()
			if err != nil {
				return fmt.Errorf("resolving QueueClient: %w", err)
			}
			msg := api.Message{Body: body}
			if groupID != "" {
				msg.GroupID = &groupID
			}
			id, err := client.Send(context.Background(), queueName, msg)
			if err != nil {
				return fmt.Errorf("sending to %q: %w", queueName, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&queueName, "queue", "", "queue name (required)")
	cmd.Flags().StringVar(&body, "body", "", "message body")
	cmd.Flags().StringVar(&groupID, "group-id", "", "FIFO group ID")
	_ = cmd.MarkFlagRequired("queue")
	return cmd
}

func newReceiveCommand() *cobra.Command {
	var queueName string
	var max int
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Receive up to --max messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.ConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			facade, err := lcplatform.RuntimeFacadeWithLogger(cfg, common.Logger())
			if err != nil {
				return fmt.Errorf("building runtime facade: %w", err)
			}
			client, err := facade.Queue()
			if err != nil {
				return fmt.Errorf("resolving QueueClient: %w", err)
			}
			msgs, err := client.Receive(context.Background(), queueName, max)
			if err != nil {
				return fmt.Errorf("receiving from %q: %w", queueName, err)
			}
			for _, m := range msgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.ID, m.Body)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&queueName, "queue", "", "queue name (required)")
	cmd.Flags().IntVar(&max, "max", 10, "maximum messages to receive")
	_ = cmd.MarkFlagRequired("queue")
	return cmd
}
