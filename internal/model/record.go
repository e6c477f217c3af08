package model

import "time"

// RecordType is the discriminator of the unified table.
type RecordType string

const (
	TypeObservation RecordType = "observation"
	TypeEvent       RecordType = "event"
	TypeImpactLink  RecordType = "impact_link"
	TypeTarget      RecordType = "target"
)

// RecordTypes lists the known kinds in table order.
var RecordTypes = []RecordType{TypeObservation, TypeEvent, TypeImpactLink, TypeTarget}

// String returns the string representation of the record type.
func (t RecordType) String() string {
	return string(t)
}

// IsValid checks whether the record type is one of the four known kinds.
func (t RecordType) IsValid() bool {
	switch t {
	case TypeObservation, TypeEvent, TypeImpactLink, TypeTarget:
		return true
	}
	return false
}

// IDPrefix returns the prefix used for generated record ids, or "" for kinds
// that have no constructor.
func (t RecordType) IDPrefix() string {
	switch t {
	case TypeObservation:
		return "obs"
	case TypeEvent:
		return "evt"
	case TypeImpactLink:
		return "imp"
	}
	return ""
}

// Confidence is a coarse reliability label on a record's sourcing.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// String returns the string representation of the confidence.
func (c Confidence) String() string {
	return string(c)
}

// IsValid checks whether the confidence is a known value.
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// ImpactDirection is the sign of an impact link.
type ImpactDirection string

const (
	DirectionPositive ImpactDirection = "positive"
	DirectionNegative ImpactDirection = "negative"
	DirectionNeutral  ImpactDirection = "neutral"
)

// String returns the string representation of the direction.
func (d ImpactDirection) String() string {
	return string(d)
}

// IsValid checks whether the direction is a known value.
func (d ImpactDirection) IsValid() bool {
	switch d {
	case DirectionPositive, DirectionNegative, DirectionNeutral:
		return true
	}
	return false
}

// Record is one row of the unified table. Common attributes live on the
// struct; kind-specific attributes live in Payload, whose concrete type
// matches Type for the four known kinds and is nil otherwise.
type Record struct {
	ID             string     `json:"record_id"`
	Type           RecordType `json:"record_type"`
	Pillar         string     `json:"pillar,omitempty"`
	Indicator      string     `json:"indicator,omitempty"`
	IndicatorCode  string     `json:"indicator_code,omitempty"`
	SourceName     string     `json:"source_name,omitempty"`
	SourceURL      string     `json:"source_url,omitempty"`
	SourceType     string     `json:"source_type,omitempty"`
	Confidence     Confidence `json:"confidence,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CollectedBy    string     `json:"collected_by,omitempty"`
	CollectionDate *time.Time `json:"collection_date,omitempty"`
	Payload        Payload    `json:"payload,omitempty"`

	// Extra holds columns the model does not name, plus kind-specific values
	// found on a record of another kind. Exported back verbatim.
	Extra map[string]string `json:"extra,omitempty"`
}

// Payload is the kind-specific part of a record.
type Payload interface {
	Kind() RecordType
}

// Observation is the payload of an observation record.
type Observation struct {
	ValueNumeric    *float64   `json:"value_numeric,omitempty"`
	ObservationDate *time.Time `json:"observation_date,omitempty"`
}

// Kind implements Payload.
func (*Observation) Kind() RecordType { return TypeObservation }

// Event is the payload of an event record.
type Event struct {
	Name        string     `json:"event_name,omitempty"`
	Date        *time.Time `json:"event_date,omitempty"`
	Category    string     `json:"event_category,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Kind implements Payload.
func (*Event) Kind() RecordType { return TypeEvent }

// ImpactLink is the payload of an impact_link record.
type ImpactLink struct {
	ParentID         string          `json:"parent_id,omitempty"`
	RelatedIndicator string          `json:"related_indicator,omitempty"`
	Direction        ImpactDirection `json:"impact_direction,omitempty"`
	Magnitude        *float64        `json:"impact_magnitude,omitempty"`
	LagMonths        *int            `json:"lag_months,omitempty"`
	EvidenceBasis    string          `json:"evidence_basis,omitempty"`
}

// Kind implements Payload.
func (*ImpactLink) Kind() RecordType { return TypeImpactLink }

// Target is the payload of a target record. Targets carry no field contract
// of their own beyond the normalized target date.
type Target struct {
	TargetDate *time.Time `json:"target_date,omitempty"`
}

// Kind implements Payload.
func (*Target) Kind() RecordType { return TypeTarget }

// Observation returns the observation payload when r is an observation.
func (r *Record) Observation() (*Observation, bool) {
	p, ok := r.Payload.(*Observation)
	return p, ok && r.Type == TypeObservation
}

// Event returns the event payload when r is an event.
func (r *Record) Event() (*Event, bool) {
	p, ok := r.Payload.(*Event)
	return p, ok && r.Type == TypeEvent
}

// ImpactLink returns the impact link payload when r is an impact link.
func (r *Record) ImpactLink() (*ImpactLink, bool) {
	p, ok := r.Payload.(*ImpactLink)
	return p, ok && r.Type == TypeImpactLink
}

// Target returns the target payload when r is a target.
func (r *Record) Target() (*Target, bool) {
	p, ok := r.Payload.(*Target)
	return p, ok && r.Type == TypeTarget
}

// ImpactDirectionValue returns the impact direction carried by the record,
// whether in its payload or stranded in Extra on a record of another kind.
func (r *Record) ImpactDirectionValue() string {
	if link, ok := r.ImpactLink(); ok && link.Direction != "" {
		return string(link.Direction)
	}
	return r.Extra[ColImpactDirection]
}

// NewPayload returns an empty payload for the given kind, or nil for an
// unknown kind.
func NewPayload(t RecordType) Payload {
	switch t {
	case TypeObservation:
		return &Observation{}
	case TypeEvent:
		return &Event{}
	case TypeImpactLink:
		return &ImpactLink{}
	case TypeTarget:
		return &Target{}
	}
	return nil
}
