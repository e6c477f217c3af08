package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/fidata/internal/events"
	"github.com/alfredjeanlab/fidata/internal/snapshot"
)

func newSaveCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "save",
		Short:   "Write the validated dataset as the enriched CSV",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.OutputPath
			if output != "" {
				path = output
			}
			n, err := a.save(cmd.Context(), []snapshot.Destination{snapshot.NewFileDestination(path)}, snapshot.FormatCSV)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d records to %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "enriched CSV path (overrides config)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		jsonl  bool
		toS3   bool
	)
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export the dataset as CSV or JSONL to stdout, a file or S3",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := snapshot.FormatCSV
			if jsonl {
				format = snapshot.FormatJSONL
			}

			var dests []snapshot.Destination
			if output != "" {
				dests = append(dests, snapshot.NewFileDestination(output))
			}
			if toS3 {
				if !a.cfg.S3.Enabled() {
					return fmt.Errorf("--s3 needs FID_S3_BUCKET or [s3] bucket in the config file")
				}
				s3, err := snapshot.NewS3Destination(cmd.Context(), a.cfg.S3, format)
				if err != nil {
					return err
				}
				dests = append(dests, s3)
			}

			if len(dests) == 0 {
				data, err := snapshot.Encode(a.store, format, time.Now())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			n, err := a.save(cmd.Context(), dests, format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, destinationNames(dests))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&jsonl, "jsonl", false, "export JSONL instead of CSV")
	cmd.Flags().BoolVar(&toS3, "s3", false, "upload to the configured S3 bucket")
	return cmd
}

// save writes a snapshot to dests, then records the run metric and
// publishes fid.snapshot.saved.
func (a *app) save(ctx context.Context, dests []snapshot.Destination, format snapshot.Format) (int, error) {
	n, err := snapshot.NewSnapshotter(dests, format, a.logger).Save(ctx, a.store)
	if err != nil {
		return 0, err
	}
	a.metrics.ObserveSaved(n)
	if err := a.publisher.Publish(ctx, events.TopicSnapshotSaved, events.SnapshotSaved{
		Destination: destinationNames(dests),
		Records:     n,
	}); err != nil {
		a.logger.Warn("failed to publish event", "topic", events.TopicSnapshotSaved, "error", err)
	}
	return n, nil
}

func destinationNames(dests []snapshot.Destination) string {
	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
