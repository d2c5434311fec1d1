package pref_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prefs/pkg/pref"
	"github.com/papercomputeco/prefs/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/prefs/pkg/utils/test"
)

// changeRecorder captures change notifications.
type changeRecorder struct {
	mu     sync.Mutex
	events []pref.ChangeEvent
}

func (r *changeRecorder) record(_ context.Context, event pref.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *changeRecorder) all() []pref.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]pref.ChangeEvent, len(r.events))
	copy(out, r.events)
	return out
}

var _ = Describe("Manager", func() {
	ctx := context.Background()

	defs := []pref.Definition{
		{Key: "theme", Storage: pref.StorageRemote, Default: pref.String("dark")},
		{Key: "editor.font_size", Storage: pref.StorageLocal, Default: pref.Int(12)},
		{Key: "session.banner", Storage: pref.StorageVolatile, Default: pref.String("")},
	}

	Describe("New", func() {
		It("rejects duplicate keys", func() {
			_, err := pref.New([]pref.Definition{
				{Key: "theme", Storage: pref.StorageLocal, Default: pref.String("a")},
				{Key: "theme", Storage: pref.StorageRemote, Default: pref.String("b")},
			})
			Expect(err).To(MatchError(pref.ErrDuplicateKey))
		})

		It("rejects empty keys", func() {
			_, err := pref.New([]pref.Definition{{Key: ""}})
			Expect(err).To(HaveOccurred())
		})

		It("preserves declaration order", func() {
			m, err := pref.New(defs)
			Expect(err).NotTo(HaveOccurred())

			got := m.Definitions()
			Expect(got).To(HaveLen(3))
			Expect(got[0].Key).To(Equal("theme"))
			Expect(got[2].Key).To(Equal("session.banner"))
		})
	})

	Describe("reads", func() {
		It("errors on undeclared keys", func() {
			m, err := pref.New(defs)
			Expect(err).NotTo(HaveOccurred())

			_, err = m.Get("nope")
			Expect(err).To(MatchError(pref.ErrUnknownKey))
			_, err = m.GetString("nope")
			Expect(err).To(MatchError(pref.ErrUnknownKey))
		})

		It("returns declared defaults before any write", func() {
			m, err := pref.New(defs)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.GetString("theme")).To(Equal("dark"))
			Expect(m.GetInt("editor.font_size")).To(Equal(int64(12)))
		})

		It("coerces kind mismatches to the declared default", func() {
			m, err := pref.New(defs)
			Expect(err).NotTo(HaveOccurred())

			// A remote merge can write any kind into the cache.
			m.Cache().Set("editor.font_size", pref.String("twelve"))
			Expect(m.GetInt("editor.font_size")).To(Equal(int64(12)))
		})
	})

	Describe("Set", func() {
		It("makes the write visible immediately even when the backend fails", func() {
			backend := testutils.NewMockBackend()
			backend.FailUpsert = true

			m, err := pref.New(defs, pref.WithRemoteBackend(backend))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Set(ctx, "theme", pref.String("blue"))).To(Succeed())
			Expect(m.GetString("theme")).To(Equal("blue"))
		})

		It("routes remote-typed writes to the backend upsert", func() {
			backend := testutils.NewMockBackend()
			m, err := pref.New(defs, pref.WithRemoteBackend(backend))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Set(ctx, "theme", pref.String("blue"))).To(Succeed())

			calls := backend.UpsertCalls()
			Expect(calls).To(HaveLen(1))
			Expect(calls[0].Key).To(Equal("theme"))
			Expect(calls[0].Value).To(Equal(pref.TypedValue{DataType: pref.TypeString, Value: "blue"}))
		})

		It("routes local-typed writes to the local store", func() {
			local := inmemory.NewDriver()
			m, err := pref.New(defs, pref.WithLocalStore(local), pref.WithIdentity("alice"))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Set(ctx, "editor.font_size", pref.Int(14))).To(Succeed())

			tv, err := local.Get(ctx, "alice", "editor.font_size")
			Expect(err).NotTo(HaveOccurred())
			Expect(tv).To(Equal(pref.TypedValue{DataType: pref.TypeInt, Value: "14"}))
		})

		It("keeps volatile writes out of every store", func() {
			local := inmemory.NewDriver()
			backend := testutils.NewMockBackend()
			m, err := pref.New(defs, pref.WithLocalStore(local), pref.WithRemoteBackend(backend))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Set(ctx, "session.banner", pref.String("hello"))).To(Succeed())
			Expect(m.GetString("session.banner")).To(Equal("hello"))

			Expect(backend.UpsertCalls()).To(BeEmpty())
			_, err = local.Get(ctx, "default", "session.banner")
			Expect(err).To(HaveOccurred())
		})

		It("errors on undeclared keys", func() {
			m, err := pref.New(defs)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Set(ctx, "nope", pref.String("x"))).To(MatchError(pref.ErrUnknownKey))
		})
	})

	Describe("Clear", func() {
		It("writes the declared default back through Set", func() {
			backend := testutils.NewMockBackend()
			m, err := pref.New(defs, pref.WithRemoteBackend(backend))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Set(ctx, "theme", pref.String("blue"))).To(Succeed())
			Expect(m.Clear(ctx, "theme")).To(Succeed())

			Expect(m.GetString("theme")).To(Equal("dark"))
			calls := backend.UpsertCalls()
			Expect(calls).To(HaveLen(2))
			Expect(calls[1].Value.Value).To(Equal("dark"))
		})
	})

	Describe("Load", func() {
		It("resolves immediately with (true, 0) when no backend is configured", func() {
			recorder := &completionRecorder{}
			m, err := pref.New(defs, pref.WithCompletion(recorder.record))
			Expect(err).NotTo(HaveOccurred())

			m.Load(ctx)

			calls, success, attempts := recorder.snapshot()
			Expect(calls).To(Equal(1))
			Expect(success).To(BeTrue())
			Expect(attempts).To(Equal(0))
		})

		It("reads local values into the cache, then merges remote values", func() {
			local := inmemory.NewDriver()
			Expect(local.Set(ctx, "default", "editor.font_size",
				pref.TypedValue{DataType: pref.TypeInt, Value: "16"})).To(Succeed())

			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: map[string]pref.TypedValue{
					"theme": {DataType: pref.TypeString, Value: "light"},
				}},
			)

			recorder := &completionRecorder{}
			m, err := pref.New(defs,
				pref.WithLocalStore(local),
				pref.WithRemoteBackend(backend),
				pref.WithRetryInterval(5*time.Millisecond),
				pref.WithCompletion(recorder.record),
			)
			Expect(err).NotTo(HaveOccurred())

			m.Load(ctx)

			// Local values are read synchronously.
			Expect(m.GetInt("editor.font_size")).To(Equal(int64(16)))

			// The remote session fires after one interval.
			Eventually(func() string {
				s, _ := m.GetString("theme")
				return s
			}).Should(Equal("light"))

			Eventually(func() int {
				calls, _, _ := recorder.snapshot()
				return calls
			}).Should(Equal(1))
			_, success, attempts := recorder.snapshot()
			Expect(success).To(BeTrue())
			Expect(attempts).To(Equal(1))
		})
	})

	Describe("Reload", func() {
		It("returns false when no backend is configured", func() {
			m, err := pref.New(defs)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Reload(ctx)).To(BeFalse())
		})

		It("fetches even after a periodic session exhausted its attempts", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: nil},
				testutils.FetchResult{Prefs: nil},
				testutils.FetchResult{Prefs: map[string]pref.TypedValue{
					"theme": {DataType: pref.TypeString, Value: "light"},
				}},
			)

			recorder := &completionRecorder{}
			m, err := pref.New(defs,
				pref.WithRemoteBackend(backend),
				pref.WithRetryInterval(5*time.Millisecond),
				pref.WithMaxAttempts(2),
				pref.WithCompletion(recorder.record),
			)
			Expect(err).NotTo(HaveOccurred())

			m.Load(ctx)
			Eventually(func() int {
				calls, _, _ := recorder.snapshot()
				return calls
			}).Should(Equal(1))
			_, success, _ := recorder.snapshot()
			Expect(success).To(BeFalse())

			Expect(m.Reload(ctx)).To(BeTrue())
			Expect(m.GetString("theme")).To(Equal("light"))
		})
	})

	Describe("change notifications", func() {
		It("reports sets and remote merges with their origin", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: map[string]pref.TypedValue{
					"theme": {DataType: pref.TypeString, Value: "light"},
				}},
			)

			recorder := &changeRecorder{}
			m, err := pref.New(defs,
				pref.WithRemoteBackend(backend),
				pref.WithOnChange(recorder.record),
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Reload(ctx)).To(BeTrue())
			Expect(m.Set(ctx, "theme", pref.String("blue"))).To(Succeed())

			events := recorder.all()
			Expect(events).To(HaveLen(2))
			Expect(events[0].Origin).To(Equal(pref.OriginRemoteMerge))
			Expect(events[0].Key).To(Equal("theme"))
			Expect(events[1].Origin).To(Equal(pref.OriginSet))
			Expect(events[1].Value.Value).To(Equal("blue"))
		})
	})
})
