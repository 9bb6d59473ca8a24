package main

import (
	"log"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/attendance"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/auth"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/config"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/database"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/handlers"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/sessions"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// databases
	database.Connect(cfg.PeopleDB)
	database.ConnectGORM(cfg.DocsDB)
	defer database.Close()

	// webauthn + tokens
	auth.Init(cfg.RPID, cfg.AllowedOrigins)
	auth.InitJWT(cfg.JWTSecret)
	auth.LoginTokenValidity = cfg.TokenValidity

	store, err := docstore.NewGormStore(database.GORMDB)
	if err != nil {
		log.Fatal(err)
	}

	api := handlers.New(
		sessions.NewIssuer(store, cfg.SessionTTL),
		sessions.NewListener(store),
		sessions.NewResolver(store),
		attendance.NewRecorder(store),
		attendance.NewRegistrar(store),
		cfg.TokenValidity,
		cfg.AllowedOrigins,
	)

	// retire resolved-but-unobserved sessions well past their TTL
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			n, err := store.PurgeExpiredSessions(time.Now().Add(-time.Hour))
			if err != nil {
				log.Println("Failed to purge expired sessions:", err)
				continue
			}
			if n > 0 {
				log.Println("Purged", n, "expired pairing sessions")
			}
		}
	}()

	// router
	router := gin.Default()
	router.GET("/create-pairing-session", api.PairingSession)
	router.POST("/scan-qr", auth.RequireAuth(), api.ScanQR)

	router.POST("/courses", api.CreateCourse)
	router.POST("/courses/:id/students", api.AddStudents)
	router.GET("/courses/:id/attendance", api.CourseAttendance)

	router.POST("/auth/register/begin", auth.BeginRegistration)
	router.POST("/auth/register/finish", auth.FinishRegistration)

	router.POST("/auth/login/begin", auth.BeginLogin)
	router.POST("/auth/login/finish", auth.FinishLogin)

	router.GET("/auth/check-if-registered", auth.CheckIfRegistered)

	router.Run(":" + cfg.Port)
}
