package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-slueval/internal/domain"
)

func TestNewSemanticsNormalizer_NilText(t *testing.T) {
	_, err := NewSemanticsNormalizer(nil)
	assert.ErrorIs(t, err, ErrNilTextNormalizer)
}

func TestSemanticsNormalizer_NormalizeFrames(t *testing.T) {
	sem, err := NewSemanticsNormalizer(newDefaultText(t))
	require.NoError(t, err)

	frames := []domain.SemanticFrame{
		{Domain: "音乐!", Intent: "播放音乐", Slots: domain.SlotsOf("歌手名", "周杰伦", "Song", "《晴天》")},
		{Domain: "地图", Intent: "导航。", Slots: domain.SlotsOf("终点", "第三大街")},
		{Domain: "Raw", Intent: "X", Opaque: json.RawMessage(`["Keep!"]`)},
	}

	got := sem.NormalizeFrames(frames)
	require.Len(t, got, 3)

	assert.Equal(t, "音乐", got[0].Domain)
	assert.True(t, got[0].Slots.Equal(domain.SlotsOf("歌手名", "周杰伦", "song", "晴天")))

	assert.Equal(t, "导航", got[1].Intent)
	v, _ := got[1].Slots.Get("终点")
	assert.Equal(t, "第3大街", v)

	assert.Equal(t, "raw", got[2].Domain)
	assert.Equal(t, "x", got[2].Intent)
	assert.False(t, got[2].HasSlotMapping())
	assert.Equal(t, `["Keep!"]`, string(got[2].Opaque))

	// Inputs are not modified.
	assert.Equal(t, "音乐!", frames[0].Domain)
	orig, _ := frames[0].Slots.Get("Song")
	assert.Equal(t, "《晴天》", orig)
}

func TestSemanticsNormalizer_CollisionLastWins(t *testing.T) {
	sem, err := NewSemanticsNormalizer(newDefaultText(t))
	require.NoError(t, err)

	got := sem.NormalizeFrames([]domain.SemanticFrame{
		{Domain: "d", Slots: domain.SlotsOf("Name", "first", "name!", "second", "other", "x")},
	})

	require.Len(t, got, 1)
	var names []string
	got[0].Slots.Range(func(name, _ string) bool {
		names = append(names, name)
		return true
	})
	assert.Equal(t, []string{"name", "other"}, names)
	v, _ := got[0].Slots.Get("name")
	assert.Equal(t, "second", v)
}

func TestSemanticsNormalizer_Empty(t *testing.T) {
	sem, err := NewSemanticsNormalizer(newDefaultText(t))
	require.NoError(t, err)

	got := sem.NormalizeFrames(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
