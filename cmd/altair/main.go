// Command altair serves the altair demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/altair"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("altair", altair.New); err != nil {
		log.Fatal(err)
	}
}
