package main

import (
	"os"
	"testing"
	"time"
)

func TestCone(t *testing.T) {
	// Scripts are relative to the repo root.
	if err := os.Chdir("../.."); err != nil {
		t.Fatal(err)
	}
	if err := run("cmd/vizexpect/scripts/cone.yaml", "", 10*time.Second, false); err != nil {
		t.Fatal(err)
	}
}
