// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package stats implements the Stats & Counts rollup: a single round-trip
producing the row counts of every memory class for a project.
*/
package stats

import "time"

// Counts holds the per-project row counts of every memory class,
// gathered in one round trip.
type Counts struct {
	GraphNodes    int64
	GraphEdges    int64
	Insights      int64
	Episodes      int64
	WorkingMemory int64
	RawDialogues  int64
	AsOf          time.Time
}
