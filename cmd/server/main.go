// Command review-service serves the review sentiment API.
//
// Usage:
//
//	review-service                     # same as "serve"
//	review-service serve -c config.yml # create the schema if needed, then serve
//	review-service migrate             # only create the schema
//	review-service version
package main

import (
	"os"

	"review-service/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
