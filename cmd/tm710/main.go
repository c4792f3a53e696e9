package main

import (
	"os"
)

const (
	Version = "0.1.0-dev"
	Build   = "development"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
