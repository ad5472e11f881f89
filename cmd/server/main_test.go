package main

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRunMainProcess_StartsAndStops(t *testing.T) {
	gin.SetMode(gin.TestMode)

	origRun := runServer
	defer func() { runServer = origRun }()

	var gotPort string
	runServer = func(r *gin.Engine, port string) error {
		gotPort = port
		return nil
	}

	if err := runMainProcess(); err != nil {
		t.Fatalf("runMainProcess: %v", err)
	}
	if gotPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", gotPort)
	}
}

func TestRunMainProcess_InvalidConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("PIX_MERCHANT_CITY", "A CITY NAME FAR TOO LONG TO ENCODE")

	origRun := runServer
	defer func() { runServer = origRun }()
	runServer = func(r *gin.Engine, port string) error { return nil }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected startup to fail on oversized merchant city")
	}
}

func TestRunMainProcess_ServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	origRun := runServer
	defer func() { runServer = origRun }()
	runServer = func(r *gin.Engine, port string) error { return errors.New("bind failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected error from server start")
	}
}
