// Command menu serves the menu demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/menu"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("menu", menu.New); err != nil {
		log.Fatal(err)
	}
}
