package modelcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loader(calls *int32) LoadFunc {
	return func(ctx context.Context) (*Entry, error) {
		atomic.AddInt32(calls, 1)
		return &Entry{Scene: scene.NewNode("Scene")}, nil
	}
}

func TestLoadHit(t *testing.T) {
	c := New()
	conv := naming.Parse("ASM, CMP")
	var calls int32

	e1, hit, err := c.Load(context.Background(), "a.glb", conv, loader(&calls))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "a.glb", e1.Path)

	e2, hit, err := c.Load(context.Background(), "a.glb", naming.Parse("ASM,CMP"), loader(&calls))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, e1, e2)
	assert.Equal(t, int32(1), calls)
}

func TestConventionChangeInvalidatesAll(t *testing.T) {
	c := New()
	var calls int32
	conv := naming.Parse("ASM, CMP")
	_, _, err := c.Load(context.Background(), "a.glb", conv, loader(&calls))
	require.NoError(t, err)
	_, _, err = c.Load(context.Background(), "b.glb", conv, loader(&calls))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.glb", "b.glb"}, c.Paths())

	e, hit, err := c.Load(context.Background(), "a.glb", naming.Parse("ASSY, PART"), loader(&calls))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "ASSY", e.Convention.AssemblyPrefix())
	assert.Equal(t, []string{"a.glb"}, c.Paths())
	assert.Equal(t, int32(3), calls)
}

func TestLoadErrorNotCached(t *testing.T) {
	c := New()
	errBroken := errors.New("broken")
	_, _, err := c.Load(context.Background(), "a.glb", naming.Parse("ASM"), func(ctx context.Context) (*Entry, error) {
		return nil, errBroken
	})
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentLoadsShareOneCall(t *testing.T) {
	c := New()
	conv := naming.Parse("ASM, CMP")
	var calls int32
	release := make(chan struct{})
	slow := func(ctx context.Context) (*Entry, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &Entry{}, nil
	}

	var wg sync.WaitGroup
	results := make([]*Entry, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, _, err := c.Load(context.Background(), "a.glb", conv, slow)
			assert.NoError(t, err)
			results[i] = e
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, e := range results {
		assert.Same(t, results[0], e)
	}
}

func TestDifferentPathsAreSerialized(t *testing.T) {
	c := New()
	conv := naming.Parse("ASM")
	var running, maxRunning int32
	load := func(ctx context.Context) (*Entry, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			m := atomic.LoadInt32(&maxRunning)
			if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return &Entry{}, nil
	}

	var wg sync.WaitGroup
	for _, p := range []string{"a.glb", "b.glb", "c.glb"} {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, _, err := c.Load(context.Background(), p, conv, load)
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxRunning)
	assert.Equal(t, 3, c.Len())
}

func TestConventionChangeOnOtherPath(t *testing.T) {
	c := New()
	var calls int32
	_, _, err := c.Load(context.Background(), "a.glb", naming.Parse("ASM, CMP"), loader(&calls))
	require.NoError(t, err)
	_, _, err = c.Load(context.Background(), "b.glb", naming.Parse("ASSY, PART"), loader(&calls))
	require.NoError(t, err)
	assert.Equal(t, []string{"b.glb"}, c.Paths())

	_, hit, err := c.Load(context.Background(), "a.glb", naming.Parse("ASM, CMP"), loader(&calls))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"a.glb"}, c.Paths())
	assert.Equal(t, int32(3), calls)
}

func TestCanceledCallerKeepsSharedLoad(t *testing.T) {
	c := New()
	conv := naming.Parse("ASM, CMP")
	started := make(chan struct{})
	release := make(chan struct{})
	var loadErr error
	slow := func(ctx context.Context) (*Entry, error) {
		close(started)
		<-release
		loadErr = ctx.Err()
		return &Entry{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, _, err := c.Load(ctx, "a.glb", conv, slow)
		first <- err
	}()
	<-started

	second := make(chan *Entry, 1)
	go func() {
		e, _, err := c.Load(context.Background(), "a.glb", conv, slow)
		assert.NoError(t, err)
		second <- e
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	assert.NotNil(t, <-second)
	assert.NoError(t, loadErr)
	assert.Equal(t, 1, c.Len())
}
