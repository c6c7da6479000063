package main

import (
	"os"

	"github.com/Kerry350/ember-deploy-s3-index/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
