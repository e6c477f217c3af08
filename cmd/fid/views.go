package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/views"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		Short:   "Load the dataset and report validation findings",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.emit(cmd.OutOrStdout(), a.report, func(w io.Writer) {
				printFindings(w, a.report)
			}); err != nil {
				return err
			}
			if a.strict && a.report.HasFindings() {
				return fmt.Errorf("validation failed with %d findings", len(a.report.Findings))
			}
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Short:   "Count records per record type",
		GroupID: "views",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := views.RecordTypeStats(a.store)
			return a.emit(cmd.OutOrStdout(), stats, func(w io.Writer) {
				tw := newTabWriter(w)
				fmt.Fprintln(tw, "RECORD TYPE\tCOUNT")
				for _, t := range statsOrder(stats) {
					fmt.Fprintf(tw, "%s\t%d\n", t, stats.Counts[t])
				}
				tw.Flush()
				fmt.Fprintf(w, "\n%d records\n", stats.TotalRecords)
			})
		},
	}
}

// statsOrder lists the known types first, then any others sorted.
func statsOrder(stats views.TypeStats) []model.RecordType {
	var known, other []model.RecordType
	for _, t := range model.RecordTypes {
		if _, ok := stats.Counts[t]; ok {
			known = append(known, t)
		}
	}
	for t := range stats.Counts {
		if !t.IsValid() {
			other = append(other, t)
		}
	}
	slices.Sort(other)
	return append(known, other...)
}

func newCoverageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "coverage",
		Short:   "Show temporal coverage per indicator",
		GroupID: "views",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cov := views.TemporalCoverage(a.store)
			return a.emit(cmd.OutOrStdout(), cov, func(w io.Writer) {
				tw := newTabWriter(w)
				fmt.Fprintln(tw, "INDICATOR\tFIRST\tLAST\tCOUNT\tCONFIDENCE\tSOURCES")
				for _, c := range cov {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
						c.IndicatorCode,
						dateOrDash(model.FormatDate(c.FirstDate)),
						dateOrDash(model.FormatDate(c.LastDate)),
						c.Count,
						c.Confidence,
						truncate(strings.Join(c.Sources, ", "), 60),
					)
				}
				tw.Flush()
				fmt.Fprintf(w, "\n%d indicators\n", len(cov))
			})
		},
	}
}

func newTimelineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "timeline",
		Short:   "List events in date order",
		GroupID: "views",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeline := views.EventsTimeline(a.store)
			return a.emit(cmd.OutOrStdout(), timeline, func(w io.Writer) {
				tw := newTabWriter(w)
				fmt.Fprintln(tw, "DATE\tID\tCATEGORY\tEVENT\tSOURCE")
				for _, e := range timeline {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						dateOrDash(model.FormatDate(e.EventDate)),
						e.RecordID,
						e.Category,
						truncate(e.EventName, 50),
						e.SourceName,
					)
				}
				tw.Flush()
				fmt.Fprintf(w, "\n%d events\n", len(timeline))
			})
		},
	}
}

func newObservationsCmd(a *app) *cobra.Command {
	var indicator string
	cmd := &cobra.Command{
		Use:     "observations",
		Short:   "List observations in date order",
		GroupID: "views",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records := views.ObservationsByIndicator(a.store, indicator)
			return a.emit(cmd.OutOrStdout(), recordRows(records), func(w io.Writer) {
				tw := newTabWriter(w)
				fmt.Fprintln(tw, "DATE\tID\tINDICATOR\tVALUE\tCONFIDENCE\tSOURCE")
				for _, r := range records {
					obs, _ := r.Observation()
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						dateOrDash(model.FormatDate(obs.ObservationDate)),
						r.ID,
						r.IndicatorCode,
						floatOrDash(obs.ValueNumeric),
						r.Confidence,
						truncate(r.SourceName, 40),
					)
				}
				tw.Flush()
				fmt.Fprintf(w, "\n%d observations\n", len(records))
			})
		},
	}
	cmd.Flags().StringVarP(&indicator, "indicator", "i", "", "restrict to one indicator code")
	return cmd
}

func newTrendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "trend <indicator-code>",
		Short:   "Show the period-over-period change of an indicator",
		GroupID: "views",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trend := views.TrendSeries(a.store, args[0])
			return a.emit(cmd.OutOrStdout(), trend, func(w io.Writer) {
				tw := newTabWriter(w)
				fmt.Fprintln(tw, "DATE\tID\tVALUE\tGROWTH")
				for _, p := range trend.Points {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						dateOrDash(model.FormatDate(p.ObservationDate)),
						p.RecordID,
						floatOrDash(p.ValueNumeric),
						floatOrDash(p.Growth),
					)
				}
				tw.Flush()
				fmt.Fprintf(w, "\nmean growth %s, last growth %s\n", floatOrDash(trend.MeanGrowth), floatOrDash(trend.LastGrowth))
			})
		},
	}
}

func newImpactsCmd(a *app) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:     "impacts",
		Short:   "List impact links",
		GroupID: "views",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			links := views.ImpactLinks(a.store, parent)
			return a.emit(cmd.OutOrStdout(), links, func(w io.Writer) {
				tw := newTabWriter(w)
				fmt.Fprintln(tw, "ID\tPARENT\tRELATED\tDIRECTION\tMAGNITUDE\tLAG")
				for _, l := range links {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						l.RecordID,
						l.ParentID,
						l.RelatedIndicator,
						l.Direction,
						floatOrDash(l.Magnitude),
						intOrDash(l.LagMonths),
					)
				}
				tw.Flush()
				fmt.Fprintf(w, "\n%d impact links\n", len(links))
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "restrict to links of one event")
	return cmd
}
