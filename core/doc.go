/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// Package core provides the reactive state store that sits between a
// browser client and application code.
//
// A Store maps keys to values.  Application code registers change
// handlers against sets of keys with Watch.  Store.Update commits new
// values and then, before returning, invokes every handler watching
// any of the updated keys.  Each handler runs at most once per
// update, in registration order, and receives the Store itself so
// that ownership of the state stays explicit.
//
// Handlers typically recompute some visualization and push it to a
// widget.  A handler that fails (or panics) doesn't undo the update
// and doesn't stop the other handlers.  The failure is logged and
// given to the Store's OnError hook.
//
// Handlers are never invoked just because they were registered.  A
// handler that should seed the initial display can be registered with
// WatchNow, which invokes it once right away.
package core
