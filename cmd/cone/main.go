// Command cone serves the cone demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/cone"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("cone", cone.New); err != nil {
		log.Fatal(err)
	}
}
