// Package internal holds helpers shared by the WebCPU packages.
package internal

import (
	"iter"
)

// Concat2 concatenates key/value iterators into a single iterator, stopping
// as soon as the consumer does.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
