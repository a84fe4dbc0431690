// Command multifilter serves the multifilter demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/multifilter"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("multifilter", multifilter.New); err != nil {
		log.Fatal(err)
	}
}
