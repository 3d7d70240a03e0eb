package hotreload_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/lifecycle"
	"go.trai.ch/kiln/internal/plugins/hotreload"
	"go.uber.org/mock/gomock"
)

func TestHotReload_RecompilesOnChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockChangeNotifier(ctrl)
		log := mocks.NewMockLogger(ctrl)

		ctx, cancel := context.WithCancel(t.Context())

		notifier.EXPECT().Watch(gomock.Any(), "/work/app/src", gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, onChange func(context.Context, []string)) error {
				onChange(ctx, []string{"/work/app/src/A.java", "/work/app/src/B.java"})
				onChange(ctx, []string{"/work/app/src/A.java"})
				<-ctx.Done()
				return nil
			})
		log.EXPECT().Info("watching /work/app/src")
		log.EXPECT().Info("2 changed file(s), recompiling")
		log.EXPECT().Info("1 changed file(s), recompiling")
		log.EXPECT().Error(gomock.Any())

		calls := 0
		r := hotreload.New(notifier, log, func(context.Context) error {
			calls++
			if calls == 2 {
				return errors.New("compilation failed")
			}
			return nil
		})
		m := lifecycle.NewManager(r.Plugin())
		cfg := domain.BuildConfig{SourceRoot: "/work/app/src"}

		require.NoError(t, m.RunHook(ctx, lifecycle.DevServerStart, cfg))
		synctest.Wait()
		assert.Equal(t, 2, calls)

		cancel()
		require.NoError(t, m.RunHook(context.Background(), lifecycle.Cleanup, cfg))
	})
}

func TestHotReload_WatchError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockChangeNotifier(ctrl)
		log := mocks.NewMockLogger(ctrl)

		notifier.EXPECT().Watch(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("too many open files"))
		log.EXPECT().Info(gomock.Any())
		log.EXPECT().Error(gomock.Any())

		m := lifecycle.NewManager(hotreload.New(notifier, log, func(context.Context) error { return nil }).Plugin())
		require.NoError(t, m.RunHook(t.Context(), lifecycle.DevServerStart, domain.BuildConfig{}))
		require.NoError(t, m.RunHook(t.Context(), lifecycle.Cleanup, domain.BuildConfig{}))
	})
}
