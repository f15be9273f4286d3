package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseSample(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		line := `{"id":"s1","query":"播放周杰伦的晴天","semantics":[` +
			`{"domain":"音乐","intent":"播放音乐","slots":{"歌手":"周杰伦","歌曲":"晴天"}}]}`

		s, err := ParseSample([]byte(line))
		require.NoError(t, err)

		assert.Equal(t, "s1", s.ID)
		assert.Equal(t, "播放周杰伦的晴天", s.Query)
		require.Len(t, s.Semantics, 1)
		f := s.Semantics[0]
		assert.Equal(t, "音乐", f.Domain)
		assert.Equal(t, "播放音乐", f.Intent)
		assert.True(t, f.HasSlotMapping())
		v, ok := f.Slots.Get("歌手")
		assert.True(t, ok)
		assert.Equal(t, "周杰伦", v)
	})

	t.Run("numeric id is stringified", func(t *testing.T) {
		s, err := ParseSample([]byte(`{"id":42,"semantics":[]}`))
		require.NoError(t, err)
		assert.Equal(t, "42", s.ID)
		assert.Empty(t, s.Semantics)
	})

	t.Run("absent fields take defaults", func(t *testing.T) {
		s, err := ParseSample([]byte(`{"id":"x","semantics":[{}]}`))
		require.NoError(t, err)
		require.Len(t, s.Semantics, 1)
		assert.Equal(t, "", s.Semantics[0].Domain)
		assert.Equal(t, "", s.Semantics[0].Intent)
		assert.Equal(t, 0, s.Semantics[0].Slots.Len())
	})

	t.Run("non-object semantics entries are dropped", func(t *testing.T) {
		s, err := ParseSample([]byte(`{"id":"x","semantics":["junk",3,{"domain":"地图"}]}`))
		require.NoError(t, err)
		require.Len(t, s.Semantics, 1)
		assert.Equal(t, "地图", s.Semantics[0].Domain)
	})

	t.Run("non-array semantics yields no frames", func(t *testing.T) {
		s, err := ParseSample([]byte(`{"id":"x","semantics":{"domain":"地图"}}`))
		require.NoError(t, err)
		assert.Empty(t, s.Semantics)
	})

	t.Run("non-mapping slots kept opaque", func(t *testing.T) {
		s, err := ParseSample([]byte(`{"id":"x","semantics":[{"domain":"D","slots":["a","b"]}]}`))
		require.NoError(t, err)
		require.Len(t, s.Semantics, 1)
		assert.False(t, s.Semantics[0].HasSlotMapping())
		assert.Equal(t, `["a","b"]`, string(s.Semantics[0].Opaque))
	})

	t.Run("repeated key last wins", func(t *testing.T) {
		s, err := ParseSample([]byte(`{"id":"a","id":"b"}`))
		require.NoError(t, err)
		assert.Equal(t, "b", s.ID)
	})

	errCases := []struct {
		name string
		line string
		want error
	}{
		{"truncated", `{"id":"x"`, ErrInvalidJSON},
		{"array record", `[1,2]`, ErrInvalidJSON},
		{"scalar record", `"id"`, ErrInvalidJSON},
		{"no id", `{"semantics":[]}`, ErrMissingID},
		{"null id", `{"id":null}`, ErrMissingID},
		{"empty id", `{"id":""}`, ErrMissingID},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSample([]byte(tt.line))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		json string
		want string
	}{
		{`"text"`, "text"},
		{`5`, "5"},
		{`1.5`, "1.5"},
		{`true`, "true"},
		{`false`, "false"},
		{`null`, ""},
		{`[1,2]`, "[1,2]"},
	}
	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(gjson.Parse(tt.json)))
		})
	}
	assert.Equal(t, "", Stringify(gjson.Get(`{}`, "missing")))
}

func TestFramesEqual(t *testing.T) {
	music := SemanticFrame{Domain: "音乐", Intent: "播放音乐", Slots: SlotsOf("歌手", "周杰伦")}
	nav := SemanticFrame{Domain: "地图", Intent: "导航", Slots: SlotsOf("终点", "公司")}

	tests := []struct {
		name string
		a, b []SemanticFrame
		want bool
	}{
		{"identical", []SemanticFrame{music, nav}, []SemanticFrame{music, nav}, true},
		{"reordered frames", []SemanticFrame{music, nav}, []SemanticFrame{nav, music}, false},
		{"different length", []SemanticFrame{music}, []SemanticFrame{music, nav}, false},
		{"both empty", []SemanticFrame{}, nil, true},
		{
			"slot value differs",
			[]SemanticFrame{music},
			[]SemanticFrame{{Domain: "音乐", Intent: "播放音乐", Slots: SlotsOf("歌手", "周杰倫")}},
			false,
		},
		{
			"opaque vs mapping",
			[]SemanticFrame{{Domain: "D", Slots: NewSlots()}},
			[]SemanticFrame{{Domain: "D", Opaque: json.RawMessage(`[]`)}},
			false,
		},
		{
			"equal opaque",
			[]SemanticFrame{{Domain: "D", Opaque: json.RawMessage(`"x"`)}},
			[]SemanticFrame{{Domain: "D", Opaque: json.RawMessage(`"x"`)}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FramesEqual(tt.a, tt.b))
		})
	}
}

func TestSemanticFrame_MarshalJSON(t *testing.T) {
	frames := []SemanticFrame{
		{Domain: "音乐", Intent: "播放音乐", Slots: SlotsOf("歌手", "周杰伦", "歌曲", "晴天")},
		{Domain: "D", Intent: "", Opaque: json.RawMessage(`["a"]`)},
		NewFrame("车载控制", "车机控制"),
	}

	b, err := json.Marshal(frames)
	require.NoError(t, err)

	assert.Equal(t,
		`[{"domain":"音乐","intent":"播放音乐","slots":{"歌手":"周杰伦","歌曲":"晴天"}},`+
			`{"domain":"D","intent":"","slots":["a"]},`+
			`{"domain":"车载控制","intent":"车机控制","slots":{}}]`,
		string(b))
}
