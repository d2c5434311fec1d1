package pref_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prefs/pkg/pref"
)

var _ = Describe("Cache", func() {
	var cache *pref.Cache

	BeforeEach(func() {
		cache = pref.NewCache()
	})

	It("falls back to the default for unwritten keys", func() {
		v := cache.Get("theme", pref.String("dark"))
		Expect(v.StringOr("")).To(Equal("dark"))
		Expect(cache.Has("theme")).To(BeFalse())
	})

	It("makes writes immediately visible", func() {
		cache.Set("theme", pref.String("light"))
		Expect(cache.Get("theme", pref.String("dark")).StringOr("")).To(Equal("light"))
		Expect(cache.Has("theme")).To(BeTrue())
		Expect(cache.Len()).To(Equal(1))
	})

	It("overwrites with last write wins", func() {
		cache.Set("theme", pref.String("light"))
		cache.Set("theme", pref.String("blue"))
		Expect(cache.Get("theme", pref.Value{}).StringOr("")).To(Equal("blue"))
		Expect(cache.Len()).To(Equal(1))
	})

	It("snapshots without exposing internal state", func() {
		cache.Set("theme", pref.String("light"))
		snap := cache.Snapshot()
		snap["theme"] = pref.String("mutated")
		Expect(cache.Get("theme", pref.Value{}).StringOr("")).To(Equal("light"))
	})

	It("handles concurrent writers and readers", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					cache.Set("counter", pref.Int(int64(j)))
					_ = cache.Get("counter", pref.Int(0))
				}
			}()
		}
		wg.Wait()
		Expect(cache.Has("counter")).To(BeTrue())
	})
})
