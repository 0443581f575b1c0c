/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// Config carries read-only resolution knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Scope is the binding scope used by member lookups when the caller
	// does not pass one.
	Scope Scope

	// MaxDeref limits how many pointer indirections are stripped from a
	// target type before its members are looked up.
	MaxDeref int

	// SourceFallback allows func selectors whose site is not registered to
	// be resolved by parsing their source file.
	SourceFallback bool
}
