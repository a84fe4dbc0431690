// Command mdview serves the mdview demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/mdview"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("mdview", mdview.New); err != nil {
		log.Fatal(err)
	}
}
