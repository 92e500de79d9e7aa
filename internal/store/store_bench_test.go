package store

import (
	"strconv"
	"testing"
)

func BenchmarkSet(b *testing.B) {
	s := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set("key"+strconv.Itoa(i&1023), "value")
	}
}

func BenchmarkGetParallel(b *testing.B) {
	s := New()
	for i := 0; i < 1024; i++ {
		_ = s.Set("key"+strconv.Itoa(i), "value")
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _, _ = s.Get("key" + strconv.Itoa(i&1023))
			i++
		}
	})
}

func BenchmarkPushPop(b *testing.B) {
	s := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Push("list", "value")
		_, _, _ = s.Pop("list")
	}
}

func BenchmarkZSetAdd(b *testing.B) {
	s := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.ZSetAdd("z", float64(i%4096), "m"+strconv.Itoa(i%4096))
	}
}

func BenchmarkMixedCollectionsParallel(b *testing.B) {
	s := New()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := "k" + strconv.Itoa(i&255)
			switch i % 4 {
			case 0:
				_ = s.HashSet(k, "f", "v")
			case 1:
				_, _ = s.SetAdd(k, "m")
			case 2:
				_, _, _ = s.HashGet(k, "f")
			default:
				_, _ = s.SetIsMember(k, "m")
			}
			i++
		}
	})
}
