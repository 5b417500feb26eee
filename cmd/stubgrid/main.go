// Command stubgrid serves the fixture WebDriver hub as a standalone
// process, so the harness can run against it like a real grid:
//
//	HUB_URL=http://localhost:4444/wd/hub \
//	TRANSLATE_ENDPOINT=http://localhost:4444/translate_a/single \
//	LISTING_URL=https://elpais.stub/opinion/ bsharness
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Ciriously/BrowserStack-Automation-Demo/config"
	"github.com/Ciriously/BrowserStack-Automation-Demo/stubgrid"
)

func main() {
	_ = godotenv.Load()
	gin.SetMode(gin.ReleaseMode)

	addr := ":" + config.GetEnvOrDefault("STUBGRID_PORT", "4444")

	s := stubgrid.New(stubgrid.DefaultSite(), stubgrid.DefaultTranslations())
	server := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	go func() {
		log.Printf("[stubgrid] hub listening on %s", addr)
		log.Printf("[stubgrid] fixture listing: %s", stubgrid.ListingURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
