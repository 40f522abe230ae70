package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mtrust/mtctl/pkg/data"
	log "github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	initLogging(name, version)

	dir, err := os.MkdirTemp("", "mtctl-test")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	dbFilePath = filepath.Join(dir, data.DataFileName)
	if err := data.Init(dbFilePath); err != nil {
		fatalErr(err)
	}

	code := m.Run()
	os.Exit(code)
}
