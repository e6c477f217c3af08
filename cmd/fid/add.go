package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/snapshot"
	"github.com/alfredjeanlab/fidata/internal/store"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a record and save the enriched dataset",
		Long: `Append a record and save the enriched dataset.

When the enriched output file already exists it is loaded instead of the raw
data, so successive adds accumulate.`,
		GroupID: "data",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.appending = true
			return a.setup(cmd.Context(), cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVarP(&a.outputPath, "output", "o", "", "enriched CSV path (overrides config)")

	// finish saves the enriched table and reports the new id.
	finish := func(cmd *cobra.Command, id string) error {
		dest := snapshot.NewFileDestination(a.cfg.OutputPath)
		if _, err := a.save(cmd.Context(), []snapshot.Destination{dest}, snapshot.FormatCSV); err != nil {
			return err
		}
		r, _ := a.store.Get(id)
		return a.emit(cmd.OutOrStdout(), model.ToRow(r), func(w io.Writer) {
			fmt.Fprintf(w, "Added %s %s\n", r.Type, id)
		})
	}

	cmd.AddCommand(
		newAddObservationCmd(a, finish),
		newAddEventCmd(a, finish),
		newAddImpactCmd(a, finish),
	)
	return cmd
}

type finishFunc func(cmd *cobra.Command, id string) error

func newAddObservationCmd(a *app, finish finishFunc) *cobra.Command {
	var in store.ObservationInput
	var date, collected, confidence string
	cmd := &cobra.Command{
		Use:   "observation",
		Short: "Add an observation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDate("date", date)
			if err != nil {
				return err
			}
			in.ObservationDate = d
			if in.CollectionDate, err = optionalDate("collected-on", collected); err != nil {
				return err
			}
			in.Confidence = model.Confidence(confidence)
			id, err := a.store.AddObservation(cmd.Context(), in)
			if err != nil {
				return err
			}
			return finish(cmd, id)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Pillar, "pillar", "", "pillar code")
	f.StringVar(&in.Indicator, "indicator", "", "indicator label")
	f.StringVar(&in.IndicatorCode, "code", "", "indicator code")
	f.Float64Var(&in.ValueNumeric, "value", 0, "observed value")
	f.StringVar(&date, "date", "", "observation date (YYYY-MM-DD)")
	f.StringVar(&in.SourceName, "source", "", "source name")
	f.StringVar(&in.SourceURL, "url", "", "source URL")
	f.StringVar(&in.Notes, "notes", "", "free-text notes")
	addCommonFlags(cmd, &confidence, &in.CollectedBy, &collected)
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newAddEventCmd(a *app, finish finishFunc) *cobra.Command {
	var in store.EventInput
	var date, collected, confidence string
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Add an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDate("date", date)
			if err != nil {
				return err
			}
			in.Date = d
			if in.CollectionDate, err = optionalDate("collected-on", collected); err != nil {
				return err
			}
			in.Confidence = model.Confidence(confidence)
			id, err := a.store.AddEvent(cmd.Context(), in)
			if err != nil {
				return err
			}
			return finish(cmd, id)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "event name")
	f.StringVar(&date, "date", "", "event date (YYYY-MM-DD)")
	f.StringVar(&in.Category, "category", "", "event category")
	f.StringVar(&in.Description, "description", "", "event description")
	f.StringVar(&in.SourceName, "source", "", "source name")
	f.StringVar(&in.SourceURL, "url", "", "source URL")
	addCommonFlags(cmd, &confidence, &in.CollectedBy, &collected)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newAddImpactCmd(a *app, finish finishFunc) *cobra.Command {
	var in store.ImpactLinkInput
	var direction, collected string
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Add an impact link from an event to an indicator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.CollectionDate, err = optionalDate("collected-on", collected); err != nil {
				return err
			}
			in.Direction = model.ImpactDirection(direction)
			id, err := a.store.AddImpactLink(cmd.Context(), in)
			if err != nil {
				return err
			}
			return finish(cmd, id)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.ParentID, "parent", "", "id of the event record")
	f.StringVar(&in.Pillar, "pillar", "", "pillar code")
	f.StringVar(&in.RelatedIndicator, "related", "", "affected indicator code")
	f.StringVar(&direction, "direction", "", "positive, negative or neutral")
	f.Float64Var(&in.Magnitude, "magnitude", 0, "impact magnitude")
	f.IntVar(&in.LagMonths, "lag", 0, "lag in months")
	f.StringVar(&in.EvidenceBasis, "evidence", "", "evidence basis")
	f.StringVar(&in.CollectedBy, "collected-by", "", "collector (default \"system\")")
	f.StringVar(&collected, "collected-on", "", "collection date (default today)")
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("related")
	_ = cmd.MarkFlagRequired("direction")
	return cmd
}

func addCommonFlags(cmd *cobra.Command, confidence, collectedBy, collectedOn *string) {
	f := cmd.Flags()
	f.StringVar(confidence, "confidence", "", "low, medium or high (default medium)")
	f.StringVar(collectedBy, "collected-by", "", "collector (default \"system\")")
	f.StringVar(collectedOn, "collected-on", "", "collection date (default today)")
}

func requireDate(flag, v string) (time.Time, error) {
	d, err := optionalDate(flag, v)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, fmt.Errorf("--%s is required", flag)
	}
	return *d, nil
}

func optionalDate(flag, v string) (*time.Time, error) {
	d, ok := model.ParseDate(v)
	if !ok {
		return nil, fmt.Errorf("--%s: cannot parse %q as a date", flag, v)
	}
	return d, nil
}
