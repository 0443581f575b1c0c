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

package strategy_test

import (
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/membername/expr"
	"dirpx.dev/membername/strategy"
)

// TestStrategies_Concurrent verifies strategies are race-free and stable
// under heavy concurrency.
func TestStrategies_Concurrent(t *testing.T) {
	s := strategy.NewUnwrapStrategy(member, method)

	nodes := []expr.Node{boxed(field), boxed(call), &expr.Convert{Type: "int64", Inner: field}}
	want := []string{"BoolField", "VoidMethod", "BoolField"}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				idx := i % len(nodes)
				got, ok := s.TryResolve(nodes[idx], conf)
				if !ok || got != want[idx] {
					errCh <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent resolve mismatch: got=%q", e)
	}
}
