package extraction

import "github.com/santhosh-tekuri/jsonschema/v5"

// structuredSchemaJSON constrains the structured analysis format. It is kept
// deliberately loose on optionals; its job is to reject payloads whose
// service_record / service_items are not the shapes the mapper expects.
const structuredSchemaJSON = `{
	"type": "object",
	"required": ["service_record", "service_items"],
	"properties": {
		"service_record": {
			"type": "object",
			"properties": {
				"service_date":     {"type": "string"},
				"service_provider": {"type": "string"},
				"mileage":          {"type": "number"},
				"total_cost":       {"type": "number"},
				"notes":            {"type": "string"}
			}
		},
		"service_items": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"service_type":         {"type": "string"},
					"description":          {"type": "string"},
					"cost":                 {"type": "number"},
					"quantity":             {"type": "integer", "minimum": 1},
					"parts_replaced":       {"type": "array", "items": {"type": "string"}},
					"next_service_date":    {"type": "string"},
					"next_service_mileage": {"type": "number"}
				}
			}
		}
	}
}`

var structuredSchema = jsonschema.MustCompileString("service_payload.json", structuredSchemaJSON)
