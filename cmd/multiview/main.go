// Command multiview serves the multiview demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/multiview"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("multiview", multiview.New); err != nil {
		log.Fatal(err)
	}
}
