package extraction

import (
	"fmt"
	"strings"
	"time"

	"carvault/models"
)

// Normalize converts one raw analysis payload into a draft service record and
// its draft items, ready for user confirmation. Two payload shapes are
// understood: the structured format (explicit service_record + service_items,
// which takes precedence when both are present) and the legacy format with
// loosely located fields. The returned draft's VehicleID is always empty; the
// caller binds it to the active vehicle before persistence.
//
// Normalize is a pure mapping over its input plus default-value rules.
func Normalize(payload map[string]any) (*models.ExtractionResult, error) {
	if len(payload) == 0 {
		return nil, ErrExtractionFormat
	}

	record, hasRecord := payload["service_record"].(map[string]any)
	items, hasItems := payload["service_items"].([]any)
	if hasRecord && hasItems {
		return normalizeStructured(payload, record, items)
	}
	return normalizeLegacy(payload)
}

func normalizeStructured(payload, record map[string]any, rawItems []any) (*models.ExtractionResult, error) {
	if err := structuredSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFormat, err)
	}

	serviceDate := time.Now()
	if t, ok := parseDate(stringAt(record, "service_date")); ok {
		serviceDate = t
	}

	draft := models.ServiceRecordDraft{
		ServiceDate:     serviceDate,
		ServiceProvider: stringAt(record, "service_provider"),
		Notes:           stringAt(record, "notes"),
	}
	if v, ok := numberAt(record, "mileage"); ok {
		n := int(v)
		draft.Mileage = &n
	}
	if v, ok := numberAt(record, "total_cost"); ok {
		draft.TotalCost = &v
	}

	var drafts []models.ServiceItemDraft
	for _, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		drafts = append(drafts, structuredItem(item))
	}

	if len(drafts) == 0 {
		synth, ok := synthesizeItem(draft.Notes, draft.TotalCost, true)
		if !ok {
			return nil, fmt.Errorf("%w: no service items present", ErrExtractionFormat)
		}
		drafts = append(drafts, synth)
	}

	return &models.ExtractionResult{Record: draft, Items: drafts}, nil
}

func structuredItem(item map[string]any) models.ServiceItemDraft {
	draft := models.ServiceItemDraft{
		ServiceType:   stringAt(item, "service_type"),
		Description:   stringAt(item, "description"),
		Quantity:      1,
		PartsReplaced: stringSliceAt(item, "parts_replaced"),
	}
	if draft.ServiceType == "" {
		draft.ServiceType = "Other Service"
	}
	if v, ok := numberAt(item, "cost"); ok {
		draft.Cost = &v
	}
	if v, ok := numberAt(item, "quantity"); ok && int(v) > 0 {
		draft.Quantity = int(v)
	}
	if t, ok := parseDate(stringAt(item, "next_service_date")); ok {
		draft.NextServiceDate = &t
	}
	if v, ok := numberAt(item, "next_service_mileage"); ok {
		n := int(v)
		draft.NextServiceMileage = &n
	}
	return draft
}

// legacyAnchors are the keys whose presence identifies the legacy format.
var legacyAnchors = []string{
	"maintenanceInfo", "serviceInfo", "otherInfo",
	"services", "vehicle", "payment", "description", "total",
}

func normalizeLegacy(payload map[string]any) (*models.ExtractionResult, error) {
	detected := false
	for _, key := range legacyAnchors {
		if _, ok := payload[key]; ok {
			detected = true
			break
		}
	}
	if !detected {
		return nil, ErrExtractionFormat
	}

	services := collectServices(payload)

	draft := models.ServiceRecordDraft{
		ServiceDate:     InferServiceDate(payload),
		ServiceProvider: InferServiceProvider(payload),
		Mileage:         InferMileage(payload),
		TotalCost:       InferTotalCost(payload, services),
		Notes:           stringAt(payload, "notes"),
	}
	if draft.Notes == "" && len(services) > 1 {
		draft.Notes = legacySummary(services)
	}

	var drafts []models.ServiceItemDraft
	for _, svc := range services {
		drafts = append(drafts, legacyItem(svc))
	}

	if len(drafts) == 0 {
		hasTypeHint := mapAt(payload, "maintenanceInfo") != nil ||
			mapAt(payload, "serviceInfo") != nil ||
			stringAt(payload, "service_type") != ""
		synth, ok := synthesizeItem(stringAt(payload, "description"), draft.TotalCost, hasTypeHint)
		if !ok {
			return nil, fmt.Errorf("%w: no service items or description found", ErrExtractionFormat)
		}
		drafts = append(drafts, synth)
	}

	// Top-level parts that no item claimed attach to the first item so the
	// full inferred union survives into the draft.
	if extra := unclaimedParts(payload, services, drafts); len(extra) > 0 {
		drafts[0].PartsReplaced = append(drafts[0].PartsReplaced, extra...)
	}

	return &models.ExtractionResult{Record: draft, Items: drafts}, nil
}

// legacySummary builds record-level notes for a multi-service receipt out of
// the overall service label and the joined per-item descriptions.
func legacySummary(services []map[string]any) string {
	label := InferMainServiceType(services)
	desc := InferServiceDescription(services)
	if label == "" || label == desc {
		return desc
	}
	if desc == "" {
		return label
	}
	return label + ": " + desc
}

// unclaimedParts returns the inferred parts union minus everything the draft
// items already carry, preserving union order.
func unclaimedParts(payload map[string]any, services []map[string]any, drafts []models.ServiceItemDraft) []string {
	union := InferParts(payload, services)
	if len(union) == 0 {
		return nil
	}
	claimed := make(map[string]bool)
	for _, d := range drafts {
		for _, p := range d.PartsReplaced {
			claimed[strings.TrimSpace(p)] = true
		}
	}
	var extra []string
	for _, p := range union {
		if !claimed[p] {
			extra = append(extra, p)
		}
	}
	return extra
}

func legacyItem(svc map[string]any) models.ServiceItemDraft {
	draft := models.ServiceItemDraft{
		ServiceType:   itemLabel(svc),
		Description:   stringAt(svc, "description"),
		Quantity:      1,
		PartsReplaced: itemParts(svc),
	}
	if draft.ServiceType == "" {
		draft.ServiceType = "Other Service"
	}
	if v, ok := numberAt(svc, "price"); ok {
		draft.Cost = &v
	}
	if v, ok := numberAt(svc, "quantity"); ok && int(v) > 0 {
		draft.Quantity = int(v)
	}
	if t, ok := parseDate(stringAt(svc, "next_service_date")); ok {
		draft.NextServiceDate = &t
	}
	return draft
}

// synthesizeItem builds the single generic fallback item used when no service
// items could be identified but a description or cost exists. Returns false
// when there is nothing to carry.
func synthesizeItem(description string, cost *float64, hasTypeHint bool) (models.ServiceItemDraft, bool) {
	if description == "" && cost == nil {
		return models.ServiceItemDraft{}, false
	}
	serviceType := "Other Service"
	if hasTypeHint {
		serviceType = "Maintenance"
	}
	return models.ServiceItemDraft{
		ServiceType: serviceType,
		Description: description,
		Cost:        cost,
		Quantity:    1,
	}, true
}
