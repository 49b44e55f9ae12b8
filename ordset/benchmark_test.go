package ordset

import (
	"fmt"
	"math/rand"
	"testing"
)

// Benchmark sizes spanning shallow and deep trees.
var benchSizes = []int{100, 1_000, 10_000, 100_000}

func benchSet(size int) *Set[int] {
	s := MustOrdered(Options[int]{})
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < size; i++ {
		s.Insert(rng.Int())
	}
	return s
}

func BenchmarkSet_Insert(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			s := benchSet(size)
			rng := rand.New(rand.NewSource(2))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				s.Insert(rng.Int())
			}
		})
	}
}

func BenchmarkSet_Insert_Bounded(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("bound=%d", size), func(b *testing.B) {
			s := MustOrdered(Options[int]{Bound: size})
			rng := rand.New(rand.NewSource(2))
			for i := 0; i < size; i++ {
				s.Insert(rng.Int())
			}

			b.ResetTimer()
			b.ReportAllocs()

			// every insert over the bound evicts the minimum
			for i := 0; i < b.N; i++ {
				s.Insert(rng.Int())
			}
		})
	}
}

func BenchmarkSet_Contains(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			s := benchSet(size)
			rng := rand.New(rand.NewSource(3))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				s.Contains(rng.Int())
			}
		})
	}
}

func BenchmarkSet_Remove_Reinsert(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			s := MustOrdered(Options[int]{})
			for i := 0; i < size; i++ {
				s.Insert(i)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				v := i % size
				s.Remove(v)
				s.Insert(v)
			}
		})
	}
}

func BenchmarkSet_Partition(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			s := MustOrdered(Options[int]{})
			for i := 0; i < size; i++ {
				s.Insert(i)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				s.Partition(i % size)
			}
		})
	}
}

func BenchmarkSet_Snapshot_Contains(b *testing.B) {
	s := benchSet(10_000)
	snap := s.Snapshot()
	rng := rand.New(rand.NewSource(4))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		snap.Contains(rng.Int())
	}
}

func BenchmarkSet_ConcurrentReadWrite(b *testing.B) {
	s := MustOrdered(Options[int]{Bound: 10_000})
	for i := 0; i < 10_000; i++ {
		s.Insert(i)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(5))
		i := 0
		for pb.Next() {
			if i%8 == 0 {
				s.Insert(rng.Int())
			} else {
				s.Contains(rng.Int())
			}
			i++
		}
	})
}
