package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferServiceDatePriority(t *testing.T) {
	payload := map[string]any{
		"maintenanceInfo": map[string]any{
			"visit_date": "2024-01-10",
			"date":       "2024-01-11",
		},
		"serviceInfo":  map[string]any{"date": "2024-01-12"},
		"service_date": "2024-01-13",
	}
	assert.Equal(t, "2024-01-10", InferServiceDate(payload).Format("2006-01-02"))

	delete(payload["maintenanceInfo"].(map[string]any), "visit_date")
	assert.Equal(t, "2024-01-11", InferServiceDate(payload).Format("2006-01-02"))

	delete(payload, "maintenanceInfo")
	assert.Equal(t, "2024-01-12", InferServiceDate(payload).Format("2006-01-02"))

	delete(payload, "serviceInfo")
	assert.Equal(t, "2024-01-13", InferServiceDate(payload).Format("2006-01-02"))
}

func TestInferServiceDateDefaultsToToday(t *testing.T) {
	got := InferServiceDate(map[string]any{"maintenanceInfo": map[string]any{"visit_date": "garbage"}})
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}

func TestInferServiceDateLayouts(t *testing.T) {
	cases := map[string]string{
		"2024-02-03":           "2024-02-03",
		"2024-02-03T10:30:00Z": "2024-02-03",
		"02/03/2024":           "2024-02-03",
	}
	for input, want := range cases {
		got := InferServiceDate(map[string]any{"service_date": input})
		assert.Equal(t, want, got.Format("2006-01-02"), "input %q", input)
	}
}

func TestInferMileage(t *testing.T) {
	payload := map[string]any{
		"vehicle": map[string]any{
			"odometer_km":    float64(50000),
			"odometer_miles": float64(31000),
			"odometer":       float64(49999),
		},
	}
	m := InferMileage(payload)
	require.NotNil(t, m)
	assert.Equal(t, 50000, *m)

	delete(payload["vehicle"].(map[string]any), "odometer_km")
	m = InferMileage(payload)
	require.NotNil(t, m)
	assert.Equal(t, 31000, *m)

	assert.Nil(t, InferMileage(map[string]any{}))
	assert.Nil(t, InferMileage(map[string]any{"vehicle": map[string]any{"odometer": float64(-5)}}))
}

func TestInferTotalCostPrefersPaymentTotal(t *testing.T) {
	payload := map[string]any{"payment": map[string]any{"total": 89.99}}
	services := []map[string]any{{"price": 10.0}}

	total := InferTotalCost(payload, services)
	require.NotNil(t, total)
	assert.Equal(t, 89.99, *total)
}

func TestInferTotalCostSumsPricesWithMissingAsZero(t *testing.T) {
	services := []map[string]any{
		{"price": 10.0},
		{"category": "Inspection"}, // no price
		{"price": 5.0},
	}
	total := InferTotalCost(map[string]any{}, services)
	require.NotNil(t, total)
	assert.Equal(t, 15.0, *total)
}

func TestInferTotalCostNilWhenNoSource(t *testing.T) {
	assert.Nil(t, InferTotalCost(map[string]any{}, nil))
}

func TestInferServiceProvider(t *testing.T) {
	payload := map[string]any{
		"serviceInfo": map[string]any{"provider": "Midtown Auto"},
		"provider":    "Top Level",
		"location":    "123 Main St",
	}
	assert.Equal(t, "Midtown Auto", InferServiceProvider(payload))

	delete(payload, "serviceInfo")
	assert.Equal(t, "Top Level", InferServiceProvider(payload))

	delete(payload, "provider")
	assert.Equal(t, "123 Main St", InferServiceProvider(payload))

	assert.Equal(t, "", InferServiceProvider(map[string]any{}))
}

func TestInferPartsUnionAndDedupe(t *testing.T) {
	payload := map[string]any{
		"parts": []any{"Oil filter", "Wiper blades"},
	}
	services := []map[string]any{
		{"parts": []any{"Oil filter", "Drain plug gasket"}},
	}

	parts := InferParts(payload, services)
	assert.Equal(t, []string{"Oil filter", "Wiper blades", "Drain plug gasket"}, parts)
}

func TestInferPartsFilterAndFluidKeywords(t *testing.T) {
	services := []map[string]any{
		{
			"category": "Oil filter replacement",
			"filter":   "PH3614",
		},
		{
			"category": "Coolant",
			"fluid":    "Dex-Cool 50/50",
		},
		{
			// "filter" key set but label has no filter keyword, so no inference
			"category": "Tire rotation",
			"filter":   "XYZ",
		},
	}

	parts := InferParts(map[string]any{}, services)
	assert.Contains(t, parts, "Filter: PH3614")
	assert.Contains(t, parts, "Coolant: Dex-Cool 50/50")
	assert.NotContains(t, parts, "Filter: XYZ")
}

func TestInferPartsFluidWithoutCategory(t *testing.T) {
	services := []map[string]any{
		{"fluid": "ATF+4"},
	}
	parts := InferParts(map[string]any{}, services)
	assert.Equal(t, []string{"Fluid: ATF+4"}, parts)
}

func TestInferMainServiceTypeSingleDistinct(t *testing.T) {
	services := []map[string]any{
		{"category": "Oil Change"},
		{"category": "Oil Change"},
	}
	assert.Equal(t, "Oil Change", InferMainServiceType(services))
}

func TestInferMainServiceTypePriorityVocabulary(t *testing.T) {
	services := []map[string]any{
		{"category": "Cabin Air Filter"},
		{"category": "Engine Repair"},
		{"category": "Premium Oil Change"},
	}
	// "Oil Change" outranks "Repair" in the vocabulary even though the repair
	// item appears first.
	assert.Equal(t, "Premium Oil Change", InferMainServiceType(services))
}

func TestInferMainServiceTypeJoinsDistinctLabels(t *testing.T) {
	services := []map[string]any{
		{"category": "Brakes"},
		{"category": "Tires"},
	}
	assert.Equal(t, "Brakes, Tires", InferMainServiceType(services))
}

func TestInferMainServiceTypeEmpty(t *testing.T) {
	assert.Equal(t, "", InferMainServiceType(nil))
}

func TestInferServiceDescription(t *testing.T) {
	services := []map[string]any{
		{"description": "Replaced front pads"},
		{"category": "Alignment"},
		{},
	}
	assert.Equal(t, "Replaced front pads, Alignment", InferServiceDescription(services))
}

func TestCollectServicesLocations(t *testing.T) {
	direct := map[string]any{"services": []any{map[string]any{"category": "A"}}}
	assert.Len(t, collectServices(direct), 1)

	nested := map[string]any{
		"serviceInfo": map[string]any{
			"services": []any{map[string]any{"category": "B"}},
		},
	}
	got := collectServices(nested)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0]["category"])

	assert.Nil(t, collectServices(map[string]any{}))
}

func TestNumberAtToleratesNumericStrings(t *testing.T) {
	m := map[string]any{"a": "42.5", "b": "  7 ", "c": "nope"}

	v, ok := numberAt(m, "a")
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)

	v, ok = numberAt(m, "b")
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = numberAt(m, "c")
	assert.False(t, ok)
}
