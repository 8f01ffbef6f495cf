package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/crowding/pkg/crowding"
)

func statusForError(err error) (int, crowding.ErrorKind) {
	var serviceError *crowding.ServiceError
	if !errors.As(err, &serviceError) {
		return fiber.StatusInternalServerError, "Internal"
	}

	switch serviceError.Kind {
	case crowding.ErrorKindUnknownLine, crowding.ErrorKindUnknownStation:
		return fiber.StatusNotFound, serviceError.Kind
	case crowding.ErrorKindInvalidDirection, crowding.ErrorKindInvalidRequest:
		return fiber.StatusBadRequest, serviceError.Kind
	case crowding.ErrorKindTimeout:
		return fiber.StatusGatewayTimeout, serviceError.Kind
	case crowding.ErrorKindUnauthorized, crowding.ErrorKindOther, crowding.ErrorKindMalformedPayload:
		return fiber.StatusBadGateway, serviceError.Kind
	}

	return fiber.StatusInternalServerError, serviceError.Kind
}

func sendError(c *fiber.Ctx, err error) error {
	status, kind := statusForError(err)

	c.Status(status)
	return c.JSON(fiber.Map{
		"errorKind": kind,
		"message":   err.Error(),
	})
}
