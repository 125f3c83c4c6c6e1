package routes

import (
	"net/http"
	"time"

	"carvault/handlers"
	"carvault/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterVehicleRoutes registers vehicle endpoints and everything nested
// under a vehicle (records, documents, recalls, export).
func RegisterVehicleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vehicles")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Vehicle.CreateVehicleHandler)
		api.GET("", hb.Vehicle.ListVehiclesHandler)
		api.GET("/:id", hb.Vehicle.GetVehicleHandler)
		api.PUT("/:id", hb.Vehicle.UpdateVehicleHandler)
		api.DELETE("/:id", hb.Vehicle.DeleteVehicleHandler)

		api.POST("/:id/records", hb.Record.CreateRecordHandler)
		api.GET("/:id/records", hb.Record.ListRecordsHandler)
		api.GET("/:id/records/export", hb.Export.ExportHistoryHandler)

		api.POST("/:id/documents/analyze", hb.Extraction.AnalyzeDocumentHandler)
		api.GET("/:id/documents", hb.Document.ListDocumentsHandler)

		api.GET("/:id/recalls", hb.Recall.GetRecallsHandler)
	}
}

// RegisterRecordRoutes registers the record endpoints addressed by record ID.
func RegisterRecordRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/records")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:recordId", hb.Record.GetRecordHandler)
		api.PUT("/:recordId", hb.Record.UpdateRecordHandler)
		api.DELETE("/:recordId", hb.Record.DeleteRecordHandler)
	}
}

// RegisterExtractionRoutes registers the extraction session endpoints.
func RegisterExtractionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/extractions")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:sessionId", hb.Extraction.GetExtractionHandler)
		api.POST("/:sessionId/confirm", hb.Extraction.ConfirmExtractionHandler)
		api.POST("/:sessionId/discard", hb.Extraction.DiscardExtractionHandler)
	}
}

// RegisterDocumentRoutes registers document endpoints addressed by document ID.
func RegisterDocumentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/documents")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:documentId/url", hb.Document.GetDocumentURLHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterVehicleRoutes(r, hb)
	RegisterRecordRoutes(r, hb)
	RegisterExtractionRoutes(r, hb)
	RegisterDocumentRoutes(r, hb)
	RegisterHealthRoute(r)
}
