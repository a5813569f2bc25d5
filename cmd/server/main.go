package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/pulse/internal/api"
	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/pkg/openapi"
)

func main() {
	specOut := flag.String("openapi", "", "Write the OpenAPI document to this file and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	if *specOut != "" {
		spec := api.BuildSpec(cfg, api.LimitsFromConfig(&cfg.API))
		if err := openapi.WriteJSON(spec, *specOut); err != nil {
			log.Fatal("write openapi failed: ", err)
		}
		fmt.Println("openapi written to", *specOut)
		return
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	if err := srv.Start(); err != nil {
		srv.Shutdown(cfg.ShutdownTimeoutDuration())
		log.Fatal("server start failed: ", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed: ", err)
	}
}
