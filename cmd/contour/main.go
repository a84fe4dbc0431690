// Command contour serves the contour demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/contour"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("contour", contour.New); err != nil {
		log.Fatal(err)
	}
}
