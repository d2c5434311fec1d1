package pref_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prefs/pkg/pref"
	testutils "github.com/papercomputeco/prefs/pkg/utils/test"
)

// completionRecorder captures the exactly-once completion callback.
type completionRecorder struct {
	mu       sync.Mutex
	calls    int
	success  bool
	attempts int
}

func (r *completionRecorder) record(success bool, attempts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.success = success
	r.attempts = attempts
}

func (r *completionRecorder) snapshot() (int, bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.success, r.attempts
}

var _ = Describe("Loader", func() {
	var (
		cache    *pref.Cache
		recorder *completionRecorder
	)

	lightTheme := map[string]pref.TypedValue{
		"theme": {DataType: pref.TypeString, Value: "light"},
	}

	newLoader := func(backend pref.RemoteBackend, checker pref.ConnectivityChecker, maxAttempts int) *pref.Loader {
		return pref.NewLoader(pref.LoaderConfig{
			Backend:     backend,
			Cache:       cache,
			RemoteKeys:  map[string]bool{"theme": true},
			Checker:     checker,
			Interval:    5 * time.Millisecond,
			MaxAttempts: maxAttempts,
			OnComplete:  recorder.record,
		})
	}

	BeforeEach(func() {
		cache = pref.NewCache()
		recorder = &completionRecorder{}
	})

	Describe("periodic session", func() {
		It("merges and succeeds on the first ready fetch", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: lightTheme},
			)
			loader := newLoader(backend, nil, 0)
			loader.Start(context.Background())

			Eventually(loader.Done()).Should(BeClosed())

			calls, success, attempts := recorder.snapshot()
			Expect(calls).To(Equal(1))
			Expect(success).To(BeTrue())
			Expect(attempts).To(Equal(1))
			Expect(cache.Get("theme", pref.Value{}).StringOr("")).To(Equal("light"))
		})

		It("counts a not-ready fetch as an attempt and succeeds on the next", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: nil},
				testutils.FetchResult{Prefs: lightTheme},
			)
			loader := newLoader(backend, nil, 0)
			loader.Start(context.Background())

			Eventually(loader.Done()).Should(BeClosed())

			_, success, attempts := recorder.snapshot()
			Expect(success).To(BeTrue())
			Expect(attempts).To(Equal(2))
		})

		It("settles exhausted after max attempts", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Err: errors.New("connection refused")},
			)
			loader := newLoader(backend, nil, 3)
			loader.Start(context.Background())

			Eventually(loader.Done()).Should(BeClosed())

			calls, success, attempts := recorder.snapshot()
			Expect(calls).To(Equal(1))
			Expect(success).To(BeFalse())
			Expect(attempts).To(Equal(3))

			// The timer stopped with the session: no further fetches.
			fetched := backend.FetchCalls()
			Consistently(backend.FetchCalls, "50ms", "10ms").Should(Equal(fetched))
		})

		It("filters periodic merges to declared remote keys", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: map[string]pref.TypedValue{
					"theme":    {DataType: pref.TypeString, Value: "light"},
					"intruder": {DataType: pref.TypeString, Value: "nope"},
				}},
			)
			loader := newLoader(backend, nil, 0)
			loader.Start(context.Background())

			Eventually(loader.Done()).Should(BeClosed())
			Expect(cache.Has("theme")).To(BeTrue())
			Expect(cache.Has("intruder")).To(BeFalse())
		})

		It("skips fetching while offline without consuming attempts", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: lightTheme},
			)
			checker := testutils.NewMockChecker(false)
			loader := newLoader(backend, checker, 1)
			loader.Start(context.Background())

			Consistently(backend.FetchCalls, "50ms", "10ms").Should(BeZero())
			Expect(loader.Settled()).To(BeFalse())

			checker.SetOnline(true)

			Eventually(loader.Done()).Should(BeClosed())
			_, success, attempts := recorder.snapshot()
			Expect(success).To(BeTrue())
			Expect(attempts).To(Equal(1))
		})

		It("settles unsuccessfully when the context is cancelled", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Err: errors.New("unreachable")},
			)
			ctx, cancel := context.WithCancel(context.Background())
			loader := newLoader(backend, nil, 0)
			loader.Start(ctx)

			Eventually(backend.FetchCalls).Should(BeNumerically(">=", 1))
			cancel()

			Eventually(loader.Done()).Should(BeClosed())
			calls, success, _ := recorder.snapshot()
			Expect(calls).To(Equal(1))
			Expect(success).To(BeFalse())
		})
	})

	Describe("RunOnce", func() {
		It("fetches immediately, merges every key, and reports one attempt", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: map[string]pref.TypedValue{
					"theme":     {DataType: pref.TypeString, Value: "light"},
					"undeclard": {DataType: pref.TypeInt, Value: "7"},
				}},
			)
			loader := newLoader(backend, nil, 0)

			Expect(loader.RunOnce(context.Background())).To(BeTrue())

			calls, success, attempts := recorder.snapshot()
			Expect(calls).To(Equal(1))
			Expect(success).To(BeTrue())
			Expect(attempts).To(Equal(1))

			// Manual reloads are unfiltered.
			Expect(cache.Has("undeclard")).To(BeTrue())
		})

		It("ignores the connectivity gate", func() {
			backend := testutils.NewMockBackend(
				testutils.FetchResult{Prefs: lightTheme},
			)
			loader := newLoader(backend, testutils.NewMockChecker(false), 0)

			Expect(loader.RunOnce(context.Background())).To(BeTrue())
			Expect(backend.FetchCalls()).To(Equal(1))
		})

		It("reports failure when the backend errors or is not ready", func() {
			loader := newLoader(testutils.NewMockBackend(
				testutils.FetchResult{Err: errors.New("boom")},
			), nil, 0)
			Expect(loader.RunOnce(context.Background())).To(BeFalse())

			_, success, attempts := recorder.snapshot()
			Expect(success).To(BeFalse())
			Expect(attempts).To(Equal(1))
		})
	})

	It("settles exactly once", func() {
		backend := testutils.NewMockBackend(
			testutils.FetchResult{Prefs: lightTheme},
		)
		loader := newLoader(backend, nil, 0)
		loader.Start(context.Background())
		Eventually(loader.Done()).Should(BeClosed())

		// A second outcome must not fire the callback again.
		loader.RunOnce(context.Background())

		calls, _, _ := recorder.snapshot()
		Expect(calls).To(Equal(1))
	})
})
