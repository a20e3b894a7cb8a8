package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"github.com/ZeusOff7/Emp-Equip/internal/loan_mgmt/documents"
	"github.com/ZeusOff7/Emp-Equip/internal/loan_mgmt/equipment"
	"github.com/ZeusOff7/Emp-Equip/internal/loan_mgmt/movements"
	"github.com/ZeusOff7/Emp-Equip/internal/platform/db"
	"github.com/ZeusOff7/Emp-Equip/internal/reports"
	"github.com/ZeusOff7/Emp-Equip/internal/settings"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		log.Fatal("mode must be dev or release")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	// 納品書PDFの置き場
	blobs, err := documents.NewDirBlobStore(cfg.Storage.UploadsDir)
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（フロントを別ポートで動かす開発中のみ必要）
		origins := cfg.HTTP.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /api
	api := r.Group("/api")
	eqSvc := equipment.NewService(conn)
	equipment.RegisterRoutes(api, eqSvc)
	movements.RegisterRoutes(api, movements.NewService(conn, eqSvc))
	documents.RegisterRoutes(api, documents.NewService(conn, blobs))
	reports.RegisterRoutes(api, reports.NewService(conn))
	settings.RegisterRoutes(api, settings.NewService(conn))

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
