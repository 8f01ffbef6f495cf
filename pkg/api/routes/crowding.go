package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/crowding/pkg/crowding"
	"github.com/travigo/crowding/pkg/gtfsrt"
)

func CrowdingRouter(router fiber.Router, service *crowding.Service) {
	router.Get("/crowding", getCrowding(service))
	router.Get("/crowding.pb", getCrowdingFeed(service))
	router.Get("/lines", listLines(service))
}

func getCrowding(service *crowding.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var groups []string
		switch c.Query("detail", "basic") {
		case "basic":
			groups = []string{"basic"}
		case "detailed":
			groups = []string{"basic", "detailed"}
		default:
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"errorKind": crowding.ErrorKindInvalidRequest,
				"message":   "detail must be basic or detailed",
			})
		}

		selection, err := service.ResolveSelection(c.Query("line"), c.Query("station"), c.Query("direction"))
		if err != nil {
			return sendError(c, err)
		}

		result, err := service.GetCrowding(c.UserContext(), selection)
		if err != nil {
			return sendError(c, err)
		}

		resultReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, result)
		if err != nil {
			c.Status(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"errorKind": "Internal",
				"message":   "Sherrif could not reduce crowding result",
			})
		}

		return c.JSON(resultReduced)
	}
}

func getCrowdingFeed(service *crowding.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		selection, err := service.ResolveSelection(c.Query("line"), c.Query("station"), c.Query("direction"))
		if err != nil {
			return sendError(c, err)
		}

		result, err := service.GetCrowding(c.UserContext(), selection)
		if err != nil {
			return sendError(c, err)
		}

		body, err := gtfsrt.Marshal(gtfsrt.FeedMessage(result, time.Now()))
		if err != nil {
			return sendError(c, err)
		}

		c.Set(fiber.HeaderContentType, "application/x-protobuf")
		return c.Send(body)
	}
}

func listLines(service *crowding.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(service.Catalog().Lines())
	}
}
