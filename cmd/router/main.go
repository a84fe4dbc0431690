// Command router serves the router demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/router"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("router", router.New); err != nil {
		log.Fatal(err)
	}
}
