// Command pickups serves the pickups demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/pickups"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("pickups", pickups.New); err != nil {
		log.Fatal(err)
	}
}
