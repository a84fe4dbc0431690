// Command table serves the table demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/table"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("table", table.New); err != nil {
		log.Fatal(err)
	}
}
