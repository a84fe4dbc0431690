/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command vizcrew serves every demo.  "/" lists them, and
// "/?app=NAME" runs one.
package main

import (
	"log"

	"github.com/Comcast/vizcrew/apps"
	"github.com/Comcast/vizcrew/server"
)

func main() {
	if err := server.MainApps("vizcrew", apps.Registry, ""); err != nil {
		log.Fatal(err)
	}
}
