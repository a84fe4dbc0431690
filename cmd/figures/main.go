// Command figures serves the figures demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/figures"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("figures", figures.New); err != nil {
		log.Fatal(err)
	}
}
