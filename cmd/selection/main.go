// Command selection serves the selection demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/selection"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("selection", selection.New); err != nil {
		log.Fatal(err)
	}
}
