package main

import (
	_ "payment_gateway/docs"
	"payment_gateway/internal/adapter/http/routes"
	"payment_gateway/internal/infrastructure/config"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Payment Gateway API
// @version         1.0
// @description     Creates checkout sessions on Stripe, Mercado Pago and AbacatePay and reconciles their webhooks.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run(config.Load())
}
