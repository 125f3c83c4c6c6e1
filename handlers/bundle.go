package handlers

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	Vehicle    *VehicleHandler
	Record     *RecordHandler
	Extraction *ExtractionHandler
	Document   *DocumentHandler
	Recall     *RecallHandler
	Export     *ExportHandler
}
