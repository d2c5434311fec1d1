package config_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/logger"
)

var _ = Describe("Watch", func() {
	var (
		tmpDir string
		cfger  *config.Configer
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "watch-test-*")
		Expect(err).NotTo(HaveOccurred())

		data := `[client]
identity = "alice"
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		cfger, err = config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if cancel != nil {
			cancel()
		}
		os.RemoveAll(tmpDir)
	})

	It("delivers the reparsed config when the file is rewritten", func() {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())

		changes := make(chan *config.Config, 4)
		go func() {
			_ = config.Watch(ctx, cfger, logger.Nop(), func(cfg *config.Config) {
				changes <- cfg
			})
		}()

		// Rewrite until the watcher (which may still be registering)
		// observes a change.
		Eventually(func() bool {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(`[client]
identity = "bob"
`), 0o600)
			Expect(err).NotTo(HaveOccurred())

			select {
			case cfg := <-changes:
				return cfg.Client.Identity == "bob"
			default:
				return false
			}
		}, "3s", "100ms").Should(BeTrue())
	})

	It("skips updates that fail to parse", func() {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())

		changes := make(chan *config.Config, 4)
		go func() {
			_ = config.Watch(ctx, cfger, logger.Nop(), func(cfg *config.Config) {
				changes <- cfg
			})
		}()

		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid toml [[["), 0o600)).To(Succeed())

		Consistently(changes, "300ms").ShouldNot(Receive())
	})

	It("stops when the context is cancelled", func() {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- config.Watch(ctx, cfger, logger.Nop(), func(*config.Config) {})
		}()

		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})
})
