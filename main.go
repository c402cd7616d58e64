package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/connectups/backend/src/blob"
	"github.com/connectups/backend/src/config"
	"github.com/connectups/backend/src/controllers"
	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/middleware"
	"github.com/connectups/backend/src/realtime"
	"github.com/connectups/backend/src/routes"
	"github.com/connectups/backend/src/services"
	"github.com/connectups/backend/src/store"
	"github.com/connectups/backend/src/store/memstore"
	"github.com/connectups/backend/src/store/mongostore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()
	ctx := context.Background()

	var st store.Store
	if cfg.MongoURI != "" {
		client, db, err := lib.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer client.Disconnect(ctx)
		ms := mongostore.New(client, db, cfg.MongoTx)
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Error("index creation failed", "error", err)
			os.Exit(1)
		}
		st = ms
		log.Info("connected to mongo", "db", cfg.MongoDB)
	} else {
		// No MONGO_URI: run on the in-process store. Development only.
		st = memstore.New()
		log.Warn("MONGO_URI not set, using in-memory store")
	}

	var blobStore blob.Store
	if cfg.S3AccessKey != "" {
		s3Store, err := blob.NewS3Store(ctx, blob.S3Config{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3Endpoint,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			log.Error("blob store init failed", "error", err)
			os.Exit(1)
		}
		blobStore = s3Store
	} else {
		blobStore = blob.NewMemory("http://localhost:" + cfg.Port + "/media")
		log.Warn("S3 not configured, using in-memory blob store")
	}

	hub := realtime.NewHub(log)
	userSvc := services.NewUserService(st, log)
	connectionSvc := services.NewConnectionService(st, log)
	messageSvc := services.NewMessageService(st, hub, services.SystemClock, log)
	notificationSvc := services.NewNotificationService(st, log)
	chatSvc := services.NewChatService(st, log)
	postSvc := services.NewPostService(st, blobStore, log)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	protect := middleware.ProtectRoute(st, []byte(cfg.JWTSecret))

	routes.AuthRoutes(app, controllers.NewAuthController(userSvc, cfg))
	routes.UserRoutes(app, controllers.NewUserController(userSvc), protect)
	routes.ConnectionRoutes(app, controllers.NewConnectionController(connectionSvc), protect)
	routes.MessageRoutes(app, controllers.NewMessageController(messageSvc, log), protect)
	routes.NotificationRoutes(app, controllers.NewNotificationController(notificationSvc), protect)
	routes.ChatRoutes(app, controllers.NewChatController(chatSvc), protect)
	routes.PostRoutes(app, controllers.NewPostController(postSvc), protect)

	log.Info("server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
