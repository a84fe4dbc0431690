// Command plotly serves the plotly demo.  Use -app to open it in a browser.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps/plotly"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.Main("plotly", plotly.New); err != nil {
		log.Fatal(err)
	}
}
