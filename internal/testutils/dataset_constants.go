package testutils

// Corruption kinds applied to generated predictions.
const (
	CorruptNone    = "none"
	CorruptNoise   = "noise"
	CorruptValue   = "value"
	CorruptDrop    = "drop"
	CorruptIntent  = "intent"
	CorruptReorder = "reorder"
)

// frameTemplate describes one domain the generator can draw frames from.
// Slot names are unique across templates so that slot pairs from different
// frames of one utterance never collide.
type frameTemplate struct {
	Domain  string
	Intents []string
	Slots   []slotTemplate
}

type slotTemplate struct {
	Name   string
	Values []string
}

var frameTemplates = []frameTemplate{
	{
		Domain:  "音乐",
		Intents: []string{"播放音乐", "播放控制"},
		Slots: []slotTemplate{
			{Name: "歌手名", Values: []string{"周杰伦", "林俊杰", "陈奕迅"}},
			{Name: "歌曲名", Values: []string{"晴天", "江南", "十年"}},
		},
	},
	{
		Domain:  "地图",
		Intents: []string{"导航", "周边搜索"},
		Slots: []slotTemplate{
			{Name: "终点", Values: []string{"公司", "机场", "火车站"}},
			{Name: "途经点", Values: []string{"加油站", "超市"}},
		},
	},
	{
		Domain:  "天气",
		Intents: []string{"查询天气", "查询温度"},
		Slots: []slotTemplate{
			{Name: "城市", Values: []string{"上海", "北京", "广州"}},
			{Name: "日期", Values: []string{"明天", "后天"}},
		},
	},
	{
		Domain:  "车载控制",
		Intents: []string{"车机控制", "车身控制"},
		Slots: []slotTemplate{
			{Name: "对象", Values: []string{"空调", "车窗", "座椅加热"}},
			{Name: "操作", Values: []string{"打开", "关闭"}},
		},
	},
	{
		Domain:  "打电话",
		Intents: []string{"拨打电话", "电话控制"},
		Slots: []slotTemplate{
			{Name: "联系人", Values: []string{"张三", "李四", "王五"}},
		},
	},
}
