package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelrealm/simcore/pkg/core"
)

func TestContext_Defaults(t *testing.T) {
	ctx := NewContext()

	s := ctx.Current()
	assert.Equal(t, "No world loaded", s.WorldName)
	assert.Equal(t, core.DifficultyNormal, s.Difficulty)
	assert.False(t, ctx.Started())
}

func TestContext_Start(t *testing.T) {
	ctx := NewContext()

	a := ctx.Start("alpha", 7, core.DifficultyUnderworld, "1.0.0")
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, a, ctx.Current())
	assert.True(t, ctx.Started())

	b := ctx.Start("alpha", 7, "", "1.0.0")
	assert.NotEqual(t, a.ID, b.ID, "each start is a new session")
	assert.Equal(t, core.DifficultyNormal, b.Difficulty)
}

func TestContext_ThreadSafe(t *testing.T) {
	ctx := NewContext()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ctx.Start("w", 1, core.DifficultyNormal, "dev")
		}()
		go func() {
			defer wg.Done()
			_ = ctx.Current()
		}()
	}
	wg.Wait()
	assert.True(t, ctx.Started())
}
