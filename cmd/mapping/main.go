// Command mapping serves the mapping demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/mapping"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("mapping", mapping.New); err != nil {
		log.Fatal(err)
	}
}
