package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots_SetKeepsFirstPosition(t *testing.T) {
	s := NewSlots()
	s.Set("歌手", "周杰伦")
	s.Set("歌曲", "晴天")
	s.Set("歌手", "周杰倫")

	var names, values []string
	s.Range(func(name, value string) bool {
		names = append(names, name)
		values = append(values, value)
		return true
	})

	assert.Equal(t, []string{"歌手", "歌曲"}, names)
	assert.Equal(t, []string{"周杰倫", "晴天"}, values)
	assert.Equal(t, 2, s.Len())
}

func TestSlots_NilIsEmpty(t *testing.T) {
	var s *Slots

	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("x")
	assert.False(t, ok)
	assert.True(t, s.Equal(NewSlots()))

	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestSlots_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b *Slots
		want bool
	}{
		{"same order", SlotsOf("a", "1", "b", "2"), SlotsOf("a", "1", "b", "2"), true},
		{"different order", SlotsOf("a", "1", "b", "2"), SlotsOf("b", "2", "a", "1"), true},
		{"different value", SlotsOf("a", "1"), SlotsOf("a", "2"), false},
		{"different key", SlotsOf("a", "1"), SlotsOf("b", "1"), false},
		{"subset", SlotsOf("a", "1"), SlotsOf("a", "1", "b", "2"), false},
		{"both empty", NewSlots(), NewSlots(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestSlots_MarshalJSON(t *testing.T) {
	s := SlotsOf("song", "<晴天>", "artist", "周杰伦 & 方文山")

	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"song":"<晴天>","artist":"周杰伦 & 方文山"}`, string(b))
}

func TestSlotsOf_OddPanics(t *testing.T) {
	assert.Panics(t, func() { SlotsOf("a") })
}
