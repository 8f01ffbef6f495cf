package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/travigo/crowding/pkg/api/routes"
	"github.com/travigo/crowding/pkg/crowding"
)

func NewApp(service *crowding.Service) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())
	webApp.Use(recover.New())

	webApp.Get("/healthz", routes.Healthz)
	webApp.Get("/version", routes.APIVersion)

	routes.PagesRouter(webApp, service)

	group := webApp.Group("/api", cors.New())
	routes.CrowdingRouter(group, service)

	return webApp
}

func SetupServer(listen string, service *crowding.Service) error {
	return NewApp(service).Listen(listen)
}
