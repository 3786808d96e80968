// Package engine dispatches the worker pool across a file mapping, merges
// the resulting per-chunk station tables, and sorts the merged result into
// the deterministic record sequence the renderer consumes.
package engine

import (
	"sort"
	"sync"

	"github.com/wxstat/aggregator/internal/byterange"
	"github.com/wxstat/aggregator/internal/chunker"
	"github.com/wxstat/aggregator/internal/stationtable"
	"github.com/wxstat/aggregator/internal/worker"
)

// Record is one station's final aggregate, ready for the renderer. Name is
// a zero-copy view into the file mapping (see byterange.String); the
// mapping must stay alive for as long as Records are in use.
type Record struct {
	Name     string
	Min, Max int16
	Sum      int64
	Count    int32
}

// Mean returns the arithmetic mean in whole-degree units.
func (r Record) Mean() float64 {
	return float64(r.Sum) / float64(r.Count) / 10
}

// mergeTreeThreshold is the table count above which Run switches from the
// single-accumulator merge to the binary-tree fan-in merge. Below it, the
// bookkeeping overhead of tree fan-in outweighs the benefit.
const mergeTreeThreshold = 8

// Run partitions data into workers-many line-aligned chunks, processes each
// on its own goroutine into a thread-local table, merges the tables, and
// returns the result sorted by station name (ascending, byte-wise). No
// shared state is mutated during the worker phase; the merge happens only
// after every worker has returned (the fork-join barrier between the worker
// phase and the merge phase).
func Run(data []byte, workers int) []Record {
	chunks := chunker.Split(data, workers)
	if len(chunks) == 0 {
		return nil
	}

	tables := make([]*stationtable.Table, len(chunks))
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for i, c := range chunks {
		i, c := i, c
		go func() {
			defer wg.Done()
			tbl := worker.NewTable()
			worker.Run(data, c, tbl)
			tables[i] = tbl
		}()
	}
	wg.Wait()

	var merged *stationtable.Table
	if len(tables) > mergeTreeThreshold {
		merged = mergeTree(tables)
	} else {
		merged = mergeLinear(tables)
	}

	return sortRecords(merged)
}

// mergeLinear picks the first table as the accumulator and upserts every
// remaining table's occupied slots into it.
func mergeLinear(tables []*stationtable.Table) *stationtable.Table {
	acc := tables[0]
	for _, t := range tables[1:] {
		acc.Merge(t)
	}
	return acc
}

// mergeTree folds tables together pairwise, halving the table count each
// round, so no single table pays for the whole merge serially. This gives
// the merge phase better scaling than mergeLinear when worker counts are
// high.
func mergeTree(tables []*stationtable.Table) *stationtable.Table {
	cur := tables
	for len(cur) > 1 {
		next := make([]*stationtable.Table, 0, (len(cur)+1)/2)
		var wg sync.WaitGroup
		for i := 0; i < len(cur); i += 2 {
			if i+1 == len(cur) {
				next = append(next, cur[i])
				continue
			}
			a, b := cur[i], cur[i+1]
			next = append(next, a)
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.Merge(b)
			}()
		}
		wg.Wait()
		cur = next
	}
	return cur[0]
}

func sortRecords(merged *stationtable.Table) []Record {
	records := make([]Record, 0, merged.Occupied())
	merged.Iterate(func(name []byte, agg stationtable.Aggregate) {
		records = append(records, Record{
			Name:  byterange.Of(name).String(),
			Min:   agg.Min,
			Max:   agg.Max,
			Sum:   agg.Sum,
			Count: agg.Count,
		})
	})
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}
