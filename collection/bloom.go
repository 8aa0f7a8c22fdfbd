// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collection

import "hash/fnv"

// bloomFilter answers "definitely not present" for static paths so misses
// skip the map lookup. A positive answer still requires the map check.
//
// It uses one FNV-1a hash per element, XORed with a seed per hash function.
type bloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

func newBloomFilter(size uint64, numHashFuncs int) *bloomFilter {
	if size == 0 {
		size = 64
	}
	bf := &bloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := range numHashFuncs {
		//nolint:gosec // G115: numHashFuncs is small, overflow impossible
		bf.seeds[i] = uint64(i + 1)
	}
	return bf
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func (bf *bloomFilter) add(s string) {
	base := hashString(s)
	for _, seed := range bf.seeds {
		pos := (base ^ seed) % bf.size
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

func (bf *bloomFilter) test(s string) bool {
	base := hashString(s)
	for _, seed := range bf.seeds {
		pos := (base ^ seed) % bf.size
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}
