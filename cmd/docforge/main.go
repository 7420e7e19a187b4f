package main

import (
	"os"

	"github.com/osvaldoandrade/docforge/pkg/docforge"
)

func main() {
	os.Exit(docforge.Execute())
}
