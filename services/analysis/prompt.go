package analysis

// extractionPrompt is the fixed instruction sent with every document. The
// model is asked for the structured format; older deployments answered with
// the legacy shape, which the normalizer still accepts.
const extractionPrompt = `You are reading a vehicle service receipt or invoice.
Extract the maintenance information and respond with a single JSON object, no
surrounding prose, in this shape:

{
  "service_record": {
    "service_date": "YYYY-MM-DD",
    "service_provider": "shop or dealership name",
    "mileage": 0,
    "total_cost": 0.0,
    "notes": "anything notable"
  },
  "service_items": [
    {
      "service_type": "e.g. Oil Change, Tire Rotation, Brake Service",
      "description": "what was done",
      "cost": 0.0,
      "quantity": 1,
      "parts_replaced": ["part names"],
      "next_service_date": "YYYY-MM-DD",
      "next_service_mileage": 0
    }
  ]
}

Omit any field you cannot read from the document. Use numbers for costs and
mileage, never strings. List one service_items entry per distinct service
performed.`
