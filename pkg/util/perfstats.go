// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of memory allocation at a given point in time.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Elapsed returns the wall-clock time since this snapshot was taken.
func (p *PerfStats) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// Log logs the difference between the state now and as it was when the PerfStats object was created.
func (p *PerfStats) Log(prefix string) {
	p.LogTo(log.StandardLogger().WithFields(nil), prefix)
}

// LogTo is as Log, but writes through a given log entry so that any fields it
// carries are retained.
func (p *PerfStats) LogTo(entry *log.Entry, prefix string) {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)
	alloc := m.TotalAlloc - p.startMem
	gcs := m.NumGC - p.startGc
	exectime := p.Elapsed().Seconds()

	entry.Debugf("%s took %0.2fs using %s (%v GC events) [%s]", prefix, exectime,
		humanize.Bytes(alloc), gcs, humanize.Bytes(m.Alloc))
}
