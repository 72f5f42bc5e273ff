// Command docclean runs the upload, extract and clean pipeline from a shell,
// against the same storage the API server uses.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
