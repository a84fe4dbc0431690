// Command resizable serves the resizable demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/resizable"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("resizable", resizable.New); err != nil {
		log.Fatal(err)
	}
}
