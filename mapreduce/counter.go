package mapreduce

import (
	"fmt"
	"sync/atomic"
)

// Stats counts the traffic of one MapReduce across all of its runs.
// Workers update it concurrently.
type Stats struct {
	Chunks              atomic.Uint64
	MapIn, MapOut       atomic.Uint64
	ReduceIn, ReduceOut atomic.Uint64
}

func (s *Stats) String() string {
	c := s.Chunks.Load()
	mi := s.MapIn.Load()
	mo := s.MapOut.Load()
	ri := s.ReduceIn.Load()
	ro := s.ReduceOut.Load()
	return fmt.Sprintf("Chunks: %d, MapIn: %d, MapOut: %d, ReduceIn: %d, ReduceOut: %d", c, mi, mo, ri, ro)
}
