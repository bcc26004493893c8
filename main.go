package main

import (
	"os"

	"MediDesk/AI"
	"MediDesk/CronJobs"
	"MediDesk/FirebaseMessaging"
	"MediDesk/Models"
	"MediDesk/Routes"
	"MediDesk/Whatsapp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	Models.ConnectDataBase()
	AI.Setup()
	if os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH") != "" {
		FirebaseMessaging.Setup()
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://medidesk.ddns.net", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	},
	))
	Routes.ConfigRoutes(router)

	workers := CronJobs.NewBillingWorkers(Models.DB)
	workers.StartCron()

	go Whatsapp.Listen()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3005"
	}
	router.Run(":" + port)
}
