package router

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/banking-notifier/internal/api/handlers/notification"
	"github.com/aliskhannn/banking-notifier/internal/api/respond"
	"github.com/aliskhannn/banking-notifier/internal/middlewares"
)

func New(handler *notification.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	e.GET("/health", func(c *ginext.Context) {
		respond.JSON(c.Writer, http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/notifications")
	{
		api.POST("/create", handler.Create)
		api.POST("/schedule", handler.Schedule)
		api.GET("/get/:id", handler.Get)
		api.GET("/all", handler.GetAll)
		api.PUT("/update", handler.Update)
		api.DELETE("/delete-expired", handler.DeleteExpired)
		api.POST("/resend-failed/:id", handler.ResendFailed)
		api.POST("/send-sms/:id", handler.SendSMS)
		api.POST("/send-email/:id", handler.SendEmail)
		api.PATCH("/mark-read/:id", handler.MarkRead)
		api.GET("/status/:id", handler.GetStatus)
		api.GET("/history/:recipientId", handler.GetHistory)
		api.POST("/create-for-transaction/:id", handler.CreateForTransaction)
		api.POST("/create-for-account/:accountNumber", handler.CreateForAccount)
		api.POST("/calculate-fees/:id", handler.CalculateFees)
		api.POST("/fraud-check/:id", handler.FraudCheck)
	}

	return e
}
