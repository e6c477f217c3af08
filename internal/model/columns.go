package model

// Column names of the flat unified table.
const (
	ColRecordID       = "record_id"
	ColRecordType     = "record_type"
	ColPillar         = "pillar"
	ColIndicator      = "indicator"
	ColIndicatorCode  = "indicator_code"
	ColSourceName     = "source_name"
	ColSourceURL      = "source_url"
	ColSourceType     = "source_type"
	ColConfidence     = "confidence"
	ColNotes          = "notes"
	ColCollectedBy    = "collected_by"
	ColCollectionDate = "collection_date"

	ColValueNumeric    = "value_numeric"
	ColObservationDate = "observation_date"

	ColEventName     = "event_name"
	ColEventDate     = "event_date"
	ColEventCategory = "event_category"
	ColDescription   = "description"

	ColParentID         = "parent_id"
	ColRelatedIndicator = "related_indicator"
	ColImpactDirection  = "impact_direction"
	ColImpactMagnitude  = "impact_magnitude"
	ColLagMonths        = "lag_months"
	ColEvidenceBasis    = "evidence_basis"

	ColTargetDate = "target_date"
)

// CommonColumns are the columns every record kind shares, in export order.
var CommonColumns = []string{
	ColRecordID, ColRecordType, ColPillar, ColIndicator, ColIndicatorCode,
	ColSourceName, ColSourceURL, ColSourceType, ColConfidence, ColNotes,
	ColCollectedBy, ColCollectionDate,
}

// MandatoryColumns must be present in an ingested table.
var MandatoryColumns = []string{ColRecordID, ColRecordType, ColIndicator, ColIndicatorCode}

// CategoricalColumns are validated against the reference catalog.
var CategoricalColumns = []string{ColRecordType, ColPillar, ColSourceType, ColConfidence}

// DateColumns are normalized to calendar dates on load.
var DateColumns = []string{ColObservationDate, ColEventDate, ColTargetDate, ColCollectionDate}

// KindColumns maps each kind to the columns only it may carry, in export order.
var KindColumns = map[RecordType][]string{
	TypeObservation: {ColValueNumeric, ColObservationDate},
	TypeEvent:       {ColEventName, ColEventDate, ColEventCategory, ColDescription},
	TypeImpactLink: {
		ColParentID, ColRelatedIndicator, ColImpactDirection,
		ColImpactMagnitude, ColLagMonths, ColEvidenceBasis,
	},
	TypeTarget: {ColTargetDate},
}

// KnownColumns returns every column the model names, common columns first
// and then each kind's columns in RecordTypes order.
func KnownColumns() []string {
	cols := append([]string(nil), CommonColumns...)
	for _, t := range RecordTypes {
		cols = append(cols, KindColumns[t]...)
	}
	return cols
}

// columnKind maps a kind-specific column back to its owning kind.
var columnKind = func() map[string]RecordType {
	m := make(map[string]RecordType)
	for t, cols := range KindColumns {
		for _, c := range cols {
			m[c] = t
		}
	}
	return m
}()

// KindOfColumn reports which kind owns col, if any.
func KindOfColumn(col string) (RecordType, bool) {
	t, ok := columnKind[col]
	return t, ok
}
