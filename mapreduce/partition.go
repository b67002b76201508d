package mapreduce

import (
	"fmt"
	"strings"

	"github.com/spaolacci/murmur3"
)

// Partitioner assigns every key to exactly one of slots reducer slots.
type Partitioner interface {
	Assign(keys []string, slots int) Assignment
}

// RoundRobin gives the i-th key to slot i % slots.
type RoundRobin struct{}

func (RoundRobin) Assign(keys []string, slots int) Assignment {
	a := make(Assignment, slots)
	for i, k := range keys {
		a[i%slots] = append(a[i%slots], k)
	}

	return a
}

// Hash places a key by its murmur3 hash, so the slot of a word does not
// depend on what other words the document contains.
type Hash struct{}

func (Hash) Assign(keys []string, slots int) Assignment {
	a := make(Assignment, slots)
	for _, k := range keys {
		s := murmur3.Sum64([]byte(k)) % uint64(slots)
		a[s] = append(a[s], k)
	}

	return a
}

// ParsePartitioner resolves a partitioner by name: "roundrobin" or "hash".
func ParsePartitioner(name string) (Partitioner, error) {
	switch strings.ToLower(name) {
	case "", "roundrobin", "round-robin":
		return RoundRobin{}, nil
	case "hash", "murmur3":
		return Hash{}, nil
	default:
		return nil, fmt.Errorf("unknown partitioner %q", name)
	}
}
