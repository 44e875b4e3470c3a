package app

import (
	"github.com/gofiber/fiber/v2"

	"brandkit/pkg/core/start"
)

func GetApp() *fiber.App {
	app := start.GetApp()

	return app
}
