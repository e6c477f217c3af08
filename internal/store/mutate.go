package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alfredjeanlab/fidata/internal/events"
	"github.com/alfredjeanlab/fidata/internal/idgen"
	"github.com/alfredjeanlab/fidata/internal/model"
)

// Defaults applied by the mutation API when an input leaves a field empty.
const (
	DefaultConfidence  = model.ConfidenceMedium
	DefaultCollectedBy = "system"

	// ImpactLinkCode is the indicator code of every constructed impact link.
	ImpactLinkCode = "IMPACT_LINK"
	// ImpactLinkIndicator is the indicator label of every constructed impact link.
	ImpactLinkIndicator = "Impact Link"
)

// ObservationInput holds the parameters of AddObservation.
type ObservationInput struct {
	Pillar          string
	Indicator       string
	IndicatorCode   string
	ValueNumeric    float64
	ObservationDate time.Time
	SourceName      string
	SourceURL       string
	Confidence      model.Confidence // default medium
	Notes           string
	CollectedBy     string     // default "system"
	CollectionDate  *time.Time // default today
}

// EventInput holds the parameters of AddEvent.
type EventInput struct {
	Name           string
	Date           time.Time
	Category       string
	Description    string
	SourceName     string
	SourceURL      string
	Confidence     model.Confidence // default medium
	CollectedBy    string           // default "system"
	CollectionDate *time.Time       // default today
}

// ImpactLinkInput holds the parameters of AddImpactLink.
type ImpactLinkInput struct {
	ParentID         string
	Pillar           string
	RelatedIndicator string
	Direction        model.ImpactDirection
	Magnitude        float64
	LagMonths        int
	EvidenceBasis    string
	CollectedBy      string     // default "system"
	CollectionDate   *time.Time // default today
}

// AddObservation appends an observation record and returns its id.
func (s *Store) AddObservation(ctx context.Context, in ObservationInput) (string, error) {
	value := in.ValueNumeric
	date := model.Date(in.ObservationDate)
	r := &model.Record{
		Type:          model.TypeObservation,
		Pillar:        in.Pillar,
		Indicator:     in.Indicator,
		IndicatorCode: in.IndicatorCode,
		SourceName:    in.SourceName,
		SourceURL:     in.SourceURL,
		Confidence:    confidenceOrDefault(in.Confidence),
		Notes:         in.Notes,
		Payload: &model.Observation{
			ValueNumeric:    &value,
			ObservationDate: &date,
		},
	}
	return s.add(ctx, r, in.CollectedBy, in.CollectionDate)
}

// AddEvent appends an event record and returns its id. Events are not
// pillar-scoped; the indicator code is EVENT_<CATEGORY>.
func (s *Store) AddEvent(ctx context.Context, in EventInput) (string, error) {
	date := model.Date(in.Date)
	r := &model.Record{
		Type:          model.TypeEvent,
		Indicator:     in.Name,
		IndicatorCode: EventCode(in.Category),
		SourceName:    in.SourceName,
		SourceURL:     in.SourceURL,
		Confidence:    confidenceOrDefault(in.Confidence),
		Notes:         in.Description,
		Payload: &model.Event{
			Name:        in.Name,
			Date:        &date,
			Category:    in.Category,
			Description: in.Description,
		},
	}
	return s.add(ctx, r, in.CollectedBy, in.CollectionDate)
}

// AddImpactLink appends an impact link record and returns its id. The parent
// is not required to exist unless the store is strict.
func (s *Store) AddImpactLink(ctx context.Context, in ImpactLinkInput) (string, error) {
	magnitude := in.Magnitude
	lag := in.LagMonths
	r := &model.Record{
		Type:          model.TypeImpactLink,
		Pillar:        in.Pillar,
		Indicator:     ImpactLinkIndicator,
		IndicatorCode: ImpactLinkCode,
		Notes:         fmt.Sprintf("Impact of %s on %s", in.ParentID, in.RelatedIndicator),
		Payload: &model.ImpactLink{
			ParentID:         in.ParentID,
			RelatedIndicator: in.RelatedIndicator,
			Direction:        in.Direction,
			Magnitude:        &magnitude,
			LagMonths:        &lag,
			EvidenceBasis:    in.EvidenceBasis,
		},
	}
	return s.add(ctx, r, in.CollectedBy, in.CollectionDate)
}

// EventCode returns the indicator code synthesized for an event category.
func EventCode(category string) string {
	return "EVENT_" + cases.Upper(language.Und).String(strings.TrimSpace(category))
}

// add fills the shared defaults, assigns an id, optionally validates, and
// appends r.
func (s *Store) add(ctx context.Context, r *model.Record, collectedBy string, collectionDate *time.Time) (string, error) {
	now := s.now()
	if collectedBy == "" {
		collectedBy = DefaultCollectedBy
	}
	r.CollectedBy = collectedBy
	if collectionDate != nil {
		d := model.Date(*collectionDate)
		r.CollectionDate = &d
	} else {
		d := model.Date(now)
		r.CollectionDate = &d
	}

	id, err := idgen.Generate(r.Type.IDPrefix(), now, func(id string) bool {
		_, taken := s.ids[id]
		return taken
	})
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", r.Type, err)
	}
	r.ID = id

	if s.strict {
		if err := s.checkStrict(r); err != nil {
			return "", err
		}
	}

	s.loaded = true
	s.records = append(s.records, r)
	s.ids[r.ID] = struct{}{}
	s.extendColumns(model.ToRow(r))

	s.metrics.ObserveAdded(r.Type)
	s.logger.Info("added record", "record_id", r.ID, "record_type", r.Type, "indicator_code", r.IndicatorCode)
	s.publish(ctx, events.TopicRecordCreated, r.ID, events.RecordCreated{Record: r})
	return r.ID, nil
}

// checkStrict applies record, catalog and parent checks.
func (s *Store) checkStrict(r *model.Record) error {
	var ve model.ValidationError
	var recErr *model.ValidationError
	if errors.As(model.ValidateRecord(r, s.catalog), &recErr) {
		ve.Errors = append(ve.Errors, recErr.Errors...)
	}
	if link, ok := r.ImpactLink(); ok {
		if _, found := s.ids[link.ParentID]; !found {
			ve.Errors = append(ve.Errors, model.FieldError{
				Field:   model.ColParentID,
				Message: fmt.Sprintf("references unknown record %q", link.ParentID),
			})
		}
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// extendColumns adds the columns row introduces to the header, in the
// model's column order.
func (s *Store) extendColumns(row map[string]string) {
	for _, col := range model.KnownColumns() {
		if row[col] != "" && !s.HasColumn(col) {
			s.columns = append(s.columns, col)
		}
	}
}

func confidenceOrDefault(c model.Confidence) model.Confidence {
	if c == "" {
		return DefaultConfidence
	}
	return c
}
