package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/annotate/internal/platform"
	"github.com/aretw0/annotate/pkg/adapters/fs"
	"github.com/aretw0/annotate/pkg/core"
	"github.com/aretw0/annotate/pkg/dispatch"
)

func TestNew_ServesFixturesThroughTheBus(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ned"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ned", "doc-3.txt"), []byte("Piet ziet Gent ."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ned", "doc-3.ann"), []byte("T1\tPER 0 4\tPiet\n"), 0644))

	var mu sync.Mutex
	var fallbackErrs []error
	d, err := platform.New(root,
		platform.WithUser("tester"),
		platform.WithFallbackTimeout(time.Second),
		platform.WithFallbackErrorHandler(func(err error) {
			mu.Lock()
			defer mu.Unlock()
			fallbackErrs = append(fallbackErrs, err)
		}),
	)
	require.NoError(t, err)

	var got []core.Envelope
	record := func(env core.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, env)
	}

	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionGetDocument,
		map[string]string{"collection": "ned", "document": "doc-3"}, record))
	d.Wait()

	mu.Lock()
	require.Len(t, got, 1, "fallback errors: %v", fallbackErrs)
	assert.Equal(t, "Piet ziet Gent .", got[0].Document.Text)
	mu.Unlock()

	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionCreateSpan,
		map[string]string{"type": "LOC", "offsets": "[[10,14]]"}, record))
	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionWhoAmI, nil, record))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	assert.Equal(t, [][]string{{"T2"}}, got[1].Edited)
	user, _ := got[2].Field("user")
	assert.Equal(t, "tester", user)
	assert.Empty(t, fallbackErrs)
}

func TestNew_WithoutFixtures(t *testing.T) {
	d, err := platform.New("")
	require.NoError(t, err)

	state := d.State().(dispatch.DispatcherState)
	assert.False(t, state.FallbackEnabled)
	assert.Equal(t, dispatch.DefaultUser, state.User)

	err = d.Dispatch(context.Background(), dispatch.NewRequest(dispatch.ActionGetDocument,
		map[string]string{"document": "missing"}, nil))
	assert.ErrorIs(t, err, core.ErrFixtureNotFound)
}

func TestNew_CannedDocument(t *testing.T) {
	d, err := platform.New("", platform.WithCannedDocument("scratch", &core.Document{Text: "x"}))
	require.NoError(t, err)

	var env core.Envelope
	require.NoError(t, d.Dispatch(context.Background(), dispatch.NewRequest(dispatch.ActionGetDocument,
		map[string]string{"document": "scratch"}, func(e core.Envelope) { env = e })))
	assert.Equal(t, "x", env.Document.Text)
}

func TestInit(t *testing.T) {
	t.Run("Creates Fixture Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "offline_data")

		src, err := platform.Init(path, platform.WithStrict(true))
		require.NoError(t, err)

		repo, ok := src.(*fs.Repository)
		require.True(t, ok, "expected fs repository")
		assert.Equal(t, path, repo.Path)
		assert.True(t, repo.State().(fs.RepositoryState).Strict)
		assert.DirExists(t, path)
	})

	t.Run("MustExist Fails For Missing Directory", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "nope"), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("Injected Source Wins", func(t *testing.T) {
		injected := fs.NewRepository(fs.Config{Path: t.TempDir()})
		src, err := platform.Init("/does/not/matter", platform.WithFixtureSource(injected))
		require.NoError(t, err)
		assert.Same(t, injected, src)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithAdapter("s3"))
		assert.Error(t, err)
	})
}
