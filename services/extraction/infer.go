package extraction

import (
	"fmt"
	"strings"
	"time"
)

// Field inference helpers for the legacy analysis format. Each helper resolves
// one scalar field by consulting several candidate source locations in
// priority order. All helpers are pure.

// serviceTypePriority is the fixed vocabulary consulted, in order, when a
// payload's service items disagree on their label.
var serviceTypePriority = []string{"Oil Change", "Maintenance", "Repair", "Inspection"}

// InferServiceDate resolves the visit date: an explicit visit date on the
// maintenance block, then the service-information block's date, then a
// top-level service date. Defaults to today so a record is always creatable.
func InferServiceDate(payload map[string]any) time.Time {
	candidates := []string{
		stringAt(mapAt(payload, "maintenanceInfo"), "visit_date"),
		stringAt(mapAt(payload, "maintenanceInfo"), "date"),
		stringAt(mapAt(payload, "serviceInfo"), "date"),
		stringAt(payload, "service_date"),
	}
	for _, c := range candidates {
		if t, ok := parseDate(c); ok {
			return t
		}
	}
	return time.Now()
}

// InferMileage resolves the odometer reading from the vehicle block, trying
// the kilometers key, then miles, then a generic odometer key.
func InferMileage(payload map[string]any) *int {
	vehicle := mapAt(payload, "vehicle")
	for _, key := range []string{"odometer_km", "odometer_miles", "odometer"} {
		if v, ok := numberAt(vehicle, key); ok {
			n := int(v)
			if n >= 0 {
				return &n
			}
		}
	}
	return nil
}

// InferTotalCost prefers an explicit payment total, else sums the price of
// every recognized service line item (missing prices count as zero). Returns
// nil when neither source exists.
func InferTotalCost(payload map[string]any, services []map[string]any) *float64 {
	if v, ok := numberAt(mapAt(payload, "payment"), "total"); ok {
		return &v
	}
	if len(services) == 0 {
		return nil
	}
	var sum float64
	for _, svc := range services {
		if v, ok := numberAt(svc, "price"); ok {
			sum += v
		}
	}
	return &sum
}

// InferServiceProvider resolves the shop name: the service-information block's
// provider, then a top-level provider, then a top-level location.
func InferServiceProvider(payload map[string]any) string {
	candidates := []string{
		stringAt(mapAt(payload, "serviceInfo"), "provider"),
		stringAt(payload, "provider"),
		stringAt(payload, "location"),
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// InferParts unions a dedicated top-level parts list, each service item's own
// parts list, and keyword-inferred filter/fluid replacements. The result is
// deduplicated in source order with empty entries removed.
func InferParts(payload map[string]any, services []map[string]any) []string {
	var parts []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		parts = append(parts, p)
	}

	for _, key := range []string{"parts", "parts_replaced"} {
		for _, p := range stringSliceAt(payload, key) {
			add(p)
		}
	}
	for _, svc := range services {
		for _, p := range itemParts(svc) {
			add(p)
		}
	}
	return parts
}

// itemParts returns the parts attributable to a single service item: its own
// parts list plus inferred filter and fluid replacements.
func itemParts(item map[string]any) []string {
	var parts []string
	for _, key := range []string{"parts", "parts_replaced"} {
		parts = append(parts, stringSliceAt(item, key)...)
	}

	category := stringAt(item, "category")
	description := stringAt(item, "description")
	label := strings.ToLower(category + " " + description)

	if model := stringAt(item, "filter"); model != "" && strings.Contains(label, "filter") {
		parts = append(parts, fmt.Sprintf("Filter: %s", model))
	}
	if fluid := stringAt(item, "fluid"); fluid != "" {
		name := category
		if name == "" {
			name = "Fluid"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, fluid))
	}

	filtered := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// InferMainServiceType resolves the overall service label. A single distinct
// item label wins outright; otherwise the first label containing a priority
// vocabulary term (checked in vocabulary order) is used; otherwise all
// distinct labels are joined with commas.
func InferMainServiceType(services []map[string]any) string {
	var labels []string
	seen := make(map[string]bool)
	for _, svc := range services {
		label := itemLabel(svc)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	}

	for _, term := range serviceTypePriority {
		for _, label := range labels {
			if strings.Contains(strings.ToLower(label), strings.ToLower(term)) {
				return label
			}
		}
	}
	return strings.Join(labels, ", ")
}

// InferServiceDescription joins each item's description-or-category in source
// order, skipping empty entries.
func InferServiceDescription(services []map[string]any) string {
	var out []string
	for _, svc := range services {
		d := stringAt(svc, "description")
		if d == "" {
			d = stringAt(svc, "category")
		}
		if d != "" {
			out = append(out, d)
		}
	}
	return strings.Join(out, ", ")
}

// itemLabel is an item's category, falling back to its description.
func itemLabel(item map[string]any) string {
	if c := stringAt(item, "category"); c != "" {
		return c
	}
	return stringAt(item, "description")
}

// collectServices finds the service line items wherever the legacy format put
// them, returning the first non-empty candidate list.
func collectServices(payload map[string]any) []map[string]any {
	candidates := [][]any{
		sliceAt(payload, "services"),
		sliceAt(mapAt(payload, "otherInfo"), "services"),
		sliceAt(mapAt(payload, "serviceInfo"), "services"),
		sliceAt(mapAt(payload, "maintenanceInfo"), "services"),
	}
	for _, c := range candidates {
		var services []map[string]any
		for _, v := range c {
			if m, ok := v.(map[string]any); ok {
				services = append(services, m)
			}
		}
		if len(services) > 0 {
			return services
		}
	}
	return nil
}

// --- loosely typed accessors over decoded JSON ---

func mapAt(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func sliceAt(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	v, _ := m[key].([]any)
	return v
}

func stringAt(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

func stringSliceAt(m map[string]any, key string) []string {
	var out []string
	for _, v := range sliceAt(m, key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// numberAt reads a numeric value, tolerating JSON numbers and numeric strings.
func numberAt(m map[string]any, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// parseDate accepts the date layouts the analysis call is known to emit.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
