package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/fidata/internal/config"
	"github.com/alfredjeanlab/fidata/internal/events"
	"github.com/alfredjeanlab/fidata/internal/ui"
)

func newWatchCmd(a *app) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Stream record, load and snapshot events from NATS",
		GroupID: "data",
		Args:    cobra.NoArgs,
		// Watching needs the NATS URL only, not the dataset.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.NATSURL == "" {
				return fmt.Errorf("watch needs FID_NATS_URL or nats_url in the config file")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			stderr := cmd.ErrOrStderr()
			sub, err := events.NewNATSSubscriber(a.cfg.NATSURL,
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					fmt.Fprintf(stderr, "nats: disconnected: %v\n", err)
				}),
				nats.ReconnectHandler(func(_ *nats.Conn) {
					fmt.Fprintln(stderr, "nats: reconnected")
				}),
			)
			if err != nil {
				return err
			}
			defer sub.Close()

			ch, cancel, err := sub.Subscribe(topic)
			if err != nil {
				return err
			}
			defer cancel()
			return a.watch(ctx, cmd.OutOrStdout(), ch)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "fid.>", "NATS subject to subscribe to")
	return cmd
}

// watch prints messages until ctx ends or ch closes.
func (a *app) watch(ctx context.Context, w io.Writer, ch <-chan events.Message) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if a.jsonOutput {
				fmt.Fprintf(w, "{\"topic\":%q,\"event\":%s}\n", msg.Topic, msg.Data)
				continue
			}
			fmt.Fprintf(w, "%s  %s  %s\n",
				ui.RenderMuted(time.Now().Format("15:04:05")),
				ui.RenderHeader(msg.Topic),
				summarize(msg),
			)
		}
	}
}

// summarize renders the salient fields of a known event.
func summarize(msg events.Message) string {
	switch msg.Topic {
	case events.TopicRecordCreated:
		var ev struct {
			Record struct {
				ID            string `json:"record_id"`
				Type          string `json:"record_type"`
				IndicatorCode string `json:"indicator_code"`
			} `json:"record"`
		}
		if json.Unmarshal(msg.Data, &ev) == nil {
			return fmt.Sprintf("%s %s %s", ev.Record.Type, ev.Record.ID, ev.Record.IndicatorCode)
		}
	case events.TopicTableLoaded:
		var ev events.TableLoaded
		if json.Unmarshal(msg.Data, &ev) == nil {
			return fmt.Sprintf("%d records, %d findings", ev.Records, len(ev.Findings))
		}
	case events.TopicSnapshotSaved:
		var ev events.SnapshotSaved
		if json.Unmarshal(msg.Data, &ev) == nil {
			return fmt.Sprintf("%d records to %s", ev.Records, ev.Destination)
		}
	}
	return string(msg.Data)
}
