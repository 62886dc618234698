package main

import (
	"os"

	"mujtama/cmd"
)

// @title                       Mujtama API
// @version                     1.0
// @description                 Arabic/English community platform: posts, ideas, comments, likes and votes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
