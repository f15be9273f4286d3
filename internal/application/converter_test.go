package application

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-slueval/infrastructure/transform"
	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

func readSFT(t *testing.T, path string) []SFTRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out []SFTRecord
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var rec SFTRecord
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestConverter_DefaultOutputPath(t *testing.T) {
	c, err := NewConverter(DefaultEvalConfig())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "train_sft_ready.jsonl"), c.DefaultOutputPath(filepath.Join("data", "train.jsonl")))
	assert.Equal(t, "dev_sft_ready.jsonl", c.DefaultOutputPath("dev.json"))
	assert.Equal(t, filepath.Join("a.b", "raw_sft_ready.jsonl"), c.DefaultOutputPath(filepath.Join("a.b", "raw")))
}

func TestConverter_Run(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "train.jsonl", lines(
		`{"query":"播放周杰伦的晴天","semantics":{"意图1":{"音乐":[{"name":"intent","value":"播放音乐"},{"name":"歌手名","value":"周杰伦"},{"name":"歌曲名","value":"晴天"}]}}}`,
		`{"query":"打开空调 & 导航回家","semantics":{"意图1":{"车载控制":[{"name":"intent","value":"车机控制"},{"name":"对象","value":"空调"}]},"意图2":{"地图":[{"name":"intent","value":"导航"},{"name":"终点","value":"家"}]}}}`,
		`{"query":"缺值","semantics":{"意图1":{"音乐":[{"name":"intent","value":"播放音乐"},{"name":"歌手名"}]}}}`,
		`{"query":"坏的","semantics":["oops"]}`,
		`not json`,
		`{"query":"没有语义"}`,
	))

	sink := &CollectSink{}
	c, err := NewConverter(DefaultEvalConfig(), WithConverterSkipSink(sink))
	require.NoError(t, err)

	summary, err := c.Run(context.Background(), in, "")
	require.NoError(t, err)

	wantOut := filepath.Join(dir, "train_sft_ready.jsonl")
	assert.Equal(t, ConvertSummary{OutputPath: wantOut, Read: 6, Written: 3, Skipped: 3}, summary)

	recs := readSFT(t, wantOut)
	require.Len(t, recs, 3)

	assert.Equal(t, strings.TrimSpace(DefaultInstruction), recs[0].Instruction)
	assert.Equal(t, "播放周杰伦的晴天", recs[0].Input)
	assert.Equal(t, `[{"domain": "音乐", "intent": "播放音乐", "slots": {"歌手名": "周杰伦", "歌曲名": "晴天"}}]`, recs[0].Output)

	assert.Equal(t, "打开空调 & 导航回家", recs[1].Input)
	assert.Equal(t,
		`[{"domain": "车载控制", "intent": "车机控制", "slots": {"对象": "空调"}}, {"domain": "地图", "intent": "导航", "slots": {"终点": "家"}}]`,
		recs[1].Output)

	assert.Equal(t, "没有语义", recs[2].Input)
	assert.Equal(t, `[]`, recs[2].Output)

	raw, err := os.ReadFile(wantOut)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "周杰伦", "non-ASCII text is written literally")
	assert.Contains(t, string(raw), " & ", "HTML characters are not escaped")

	require.Len(t, sink.Skips, 3)
	assert.Equal(t, domain.SkipTransformFailed, sink.Skips[0].Reason)
	assert.ErrorIs(t, sink.Skips[0].Err, domain.ErrMissingSlotValue)
	assert.Equal(t, 3, sink.Skips[0].Line)
	assert.Equal(t, domain.SkipTransformFailed, sink.Skips[1].Reason)
	assert.Equal(t, domain.SkipInvalidJSON, sink.Skips[2].Reason)
}

func TestConverter_MissingValueEmpty(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.Transform.MissingValue = transform.MissingValueEmpty
	cfg.Convert.Instruction = "  custom prompt \n"

	dir := t.TempDir()
	in := writeFile(t, dir, "raw.jsonl", lines(
		`{"query":"缺值","semantics":{"意图1":{"音乐":[{"name":"intent","value":"播放音乐"},{"name":"歌手名"}]}}}`,
	))
	out := filepath.Join(dir, "custom.jsonl")

	c, err := NewConverter(cfg)
	require.NoError(t, err)
	summary, err := c.Run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Written)

	recs := readSFT(t, out)
	require.Len(t, recs, 1)
	assert.Equal(t, "custom prompt", recs[0].Instruction)
	assert.Equal(t, `[{"domain": "音乐", "intent": "播放音乐", "slots": {"歌手名": ""}}]`, recs[0].Output)
}

func TestConverter_MissingInput(t *testing.T) {
	c, err := NewConverter(DefaultEvalConfig())
	require.NoError(t, err)

	_, err = c.Run(context.Background(), filepath.Join(t.TempDir(), "absent.jsonl"), "")
	assert.ErrorIs(t, err, ports.ErrInputNotFound)
}

func TestMarshalFrames(t *testing.T) {
	tests := []struct {
		name   string
		frames []domain.SemanticFrame
		want   string
	}{
		{name: "empty list", frames: nil, want: `[]`},
		{
			name:   "empty slots",
			frames: []domain.SemanticFrame{domain.NewFrame("D", "I")},
			want:   `[{"domain": "D", "intent": "I", "slots": {}}]`,
		},
		{
			name: "spaced separators",
			frames: []domain.SemanticFrame{
				{Domain: "D", Intent: "I", Slots: domain.SlotsOf("k", "v", "k2", "v2")},
				{Domain: "地图", Intent: "导航", Slots: domain.SlotsOf("终点", "家")},
			},
			want: `[{"domain": "D", "intent": "I", "slots": {"k": "v", "k2": "v2"}}, {"domain": "地图", "intent": "导航", "slots": {"终点": "家"}}]`,
		},
		{
			name:   "escapes",
			frames: []domain.SemanticFrame{{Domain: "a\"b", Intent: "c\\d", Slots: domain.SlotsOf("<&>", "x\ny\t\u0001\u2028")}},
			want:   `[{"domain": "a\"b", "intent": "c\\d", "slots": {"<&>": "x\ny\t\u0001` + "\u2028" + `"}}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, marshalFrames(tt.frames))
		})
	}
}

func TestConverter_RepeatedDomainKey(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "dup.jsonl", lines(
		`{"query":"q","semantics":{"i1":{"D":[{"name":"intent","value":"A"}],"D":[{"name":"intent","value":"B"}]}}}`,
	))
	out := filepath.Join(dir, "dup_out.jsonl")

	c, err := NewConverter(DefaultEvalConfig())
	require.NoError(t, err)
	_, err = c.Run(context.Background(), in, out)
	require.NoError(t, err)

	recs := readSFT(t, out)
	require.Len(t, recs, 1)
	assert.Equal(t, `[{"domain": "D", "intent": "B", "slots": {}}]`, recs[0].Output)
}
