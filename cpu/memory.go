package cpu

import (
	"iter"
	"maps"
	"slices"
)

// Memory is a sparse store of values addressed by text tokens.
// An absent address is distinct from one holding "0".
type Memory struct {
	cell map[string]Value
}

// Get reads an address.
func (mem *Memory) Get(address string) (value Value, ok bool) {
	value, ok = mem.cell[address]
	return
}

// Set writes an address, creating it if absent.
func (mem *Memory) Set(address string, value Value) {
	if mem.cell == nil {
		mem.cell = make(map[string]Value)
	}
	mem.cell[address] = value
}

// Len is the number of written addresses.
func (mem *Memory) Len() int {
	return len(mem.cell)
}

// All iterates over the written addresses in address order.
func (mem *Memory) All() iter.Seq2[string, Value] {
	return func(yield func(address string, value Value) bool) {
		for _, address := range slices.Sorted(maps.Keys(mem.cell)) {
			if !yield(address, mem.cell[address]) {
				return
			}
		}
	}
}

// Reset clears all addresses.
func (mem *Memory) Reset() {
	clear(mem.cell)
}
