package main

import (
	"log"
	"strings"

	"shrusti-dashboard/internal/advance"
	"shrusti-dashboard/internal/config"
	"shrusti-dashboard/internal/cutting"
	"shrusti-dashboard/internal/fabric"
	"shrusti-dashboard/internal/operations"
	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/staff"
	"shrusti-dashboard/internal/stash"
	"shrusti-dashboard/internal/upstream"
	"shrusti-dashboard/internal/wages"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	api := upstream.New(cfg.APIBaseURL)

	var store stash.Store
	if cfg.RedisAddr != "" {
		store = stash.NewRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	} else {
		store = stash.NewMemory()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	screens := app.Group("/screens")
	screens.Use(session.Middleware())

	// Fabric intake
	screens.Get("/fabric-receipt", fabric.ScreenHandler(api, store))
	screens.Post("/fabric-receipt", fabric.CreateReceiptHandler(api, store))
	screens.Post("/fabric-receipt/duplicate", fabric.DuplicateHandler(api, store))
	screens.Post("/fabric-receipt/suppliers", fabric.AddSupplierHandler(api))
	screens.Post("/fabric-receipt/fabric-types", fabric.AddFabricTypeHandler(api))
	screens.Get("/fabric-receipt/:number/barcode.svg", fabric.BarcodeHandler())
	screens.Get("/fabric-receipt/:number/card.png", fabric.CardHandler(api))
	screens.Get("/suppliers", fabric.SuppliersScreenHandler(api))
	screens.Get("/suppliers/:id/receipts", fabric.SupplierReceiptsHandler(api))

	// Cutting
	screens.Get("/cutting", cutting.ScreenHandler(api))
	screens.Post("/cutting", cutting.CreateEntryHandler(api))
	screens.Get("/cutting/history", cutting.HistoryHandler(api))
	screens.Get("/cutting/inward/:number", cutting.InwardLookupHandler(api))
	screens.Get("/cutting/balance/:id", cutting.BalanceHandler(api))

	// Wages
	screens.Get("/wages/new", wages.NewScreenHandler(api))
	screens.Post("/wages", wages.CreateEntryHandler(api))
	screens.Get("/wages/roster", wages.RosterHandler(api))
	screens.Get("/wages/staff/:id", wages.StaffDefaultsHandler(api))
	screens.Get("/wages/balance/:id", wages.BalanceHandler(api))
	screens.Get("/wages/review", wages.ReviewHandler(api))
	screens.Post("/wages/pay", wages.PayHandler(api))
	screens.Get("/wages/slip.pdf", wages.SlipHandler(api))
	screens.Get("/wages/export.xlsx", wages.ExportHandler(api))

	// Advance payments
	screens.Get("/advance-payments", advance.ScreenHandler(api))
	screens.Post("/advance-payments/pay", advance.PayAmountHandler(api))

	// Staff and operation registries
	screens.Get("/staff", staff.ListHandler(api))
	screens.Delete("/staff/:id", staff.DeleteHandler(api))
	screens.Get("/operations", operations.ListHandler(api))
	screens.Post("/operations", operations.CreateHandler(api))
	screens.Put("/operations/:id", operations.UpdateHandler(api))
	screens.Delete("/operations/:id", operations.DeleteHandler(api))

	log.Println("Dashboard gateway listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
