package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-slueval/infrastructure/jsonl"
	"github.com/ahrav/go-slueval/infrastructure/normalize"
	"github.com/ahrav/go-slueval/infrastructure/transform"
	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

// DefaultInstruction is the instruction paired with every converted record:
// the in-car NLU system prompt listing the available domains and intents.
const DefaultInstruction = `你是一個專業的車載 NLU 專家。請根據用戶查詢，輸出 JSON List 格式的語義幀。
規則：
1. 識別多個意圖：若查詢包含多個獨立意圖，請生成多個 JSON 對象。
2. 格式：[{"domain": "領域", "intent": "意圖", "slots": {"鍵": "值"}}]。
3. 若無匹配意圖，請返回空列表 []。
4. 請勿回答除了下方可用意圖以外的意圖!

可用領域與意圖：
- 車載控制：車機控制、車身控制、提供信息
- 地圖：導航、提供地址、查詢路況、查詢定位、查詢路程、查詢前方路線、導航路線規劃、設置常用地址、導航到常用地址、沿途搜索、周邊搜索、增加途經點、刪除途經點、地圖操作、上報事件、限速查詢、設置目的地、查詢目的地、修改途經點、收藏、取消收藏
- 音樂：播放音樂、播放控制、查詢音樂信息、播放收藏、播放列表、播放歷史、新手引導
- 打電話：撥打電話、電話控制、接聽電話、掛斷電話、查詢信息、撥打黃頁號碼
- 收音機：播放電台、播放控制、播放收藏、收音機控制
- 天氣：查詢天氣、查詢氣象、查詢溫度、查詢濕度、查詢風力、查詢風向、查詢空氣質量、查詢紫外線、查詢日出日落、查詢活動、查詢裝備、穿衣推薦、新手引導、查詢日期、查詢城市、查詢場景
- 影視：播放影視、播放控制、播放收藏、播放列表、播放歷史、查詢影視信息
- 播放控制：播放控制
- 系統指令：sys.確認、sys.取消、sys.用戶選擇、sys.電話選擇`

// EvalConfig is the complete configuration of an evaluation or conversion
// run. Every component receives its section at construction; nothing is
// read from package-level state.
type EvalConfig struct {
	// Normalization configures the text normalizer used on both sides of
	// every aligned pair. Numeral entries from YAML merge over the default
	// table.
	Normalization normalize.TextConfig `yaml:"normalization"`

	// Transform configures raw annotation conversion.
	Transform transform.Config `yaml:"transform"`

	// Scan bounds the JSONL reader.
	Scan ScanConfig `yaml:"scan"`

	// Report controls rendering of the final report.
	Report ReportConfig `yaml:"report"`

	// QueryCER enables the optional query character error rate block.
	QueryCER QueryCERConfig `yaml:"query_cer"`

	// Convert configures the SFT conversion utility.
	Convert ConvertConfig `yaml:"convert"`
}

// ScanConfig bounds line reading.
type ScanConfig struct {
	// MaxLineBytes is the longest accepted JSONL line.
	MaxLineBytes int `yaml:"max_line_bytes" validate:"min=0,max=1073741824"`
}

// ReportConfig controls number formatting in the text report.
type ReportConfig struct {
	// RatioPrecision is the number of decimals for raw ratios.
	RatioPrecision int `yaml:"ratio_precision" validate:"min=0,max=10"`
	// PercentPrecision is the number of decimals for percentages.
	PercentPrecision int `yaml:"percent_precision" validate:"min=0,max=10"`
}

// QueryCERConfig toggles query CER scoring.
type QueryCERConfig struct {
	Enabled bool `yaml:"enabled"`
	// Normalize applies the text normalizer to both queries first.
	Normalize bool `yaml:"normalize"`
}

// ConvertConfig configures the SFT converter.
type ConvertConfig struct {
	// Instruction is written verbatim into every output record.
	Instruction string `yaml:"instruction" validate:"required"`
	// OutputSuffix is appended to the input stem to form the default
	// output file name.
	OutputSuffix string `yaml:"output_suffix" validate:"required,max=64,filesuffix"`
}

// DefaultEvalConfig returns the configuration used when no file is given.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		Normalization: normalize.DefaultTextConfig(),
		Transform:     transform.DefaultConfig(),
		Scan:          ScanConfig{MaxLineBytes: jsonl.DefaultMaxLineBytes},
		Report:        ReportConfig{RatioPrecision: 4, PercentPrecision: 2},
		QueryCER:      QueryCERConfig{Enabled: false, Normalize: true},
		Convert: ConvertConfig{
			Instruction:  DefaultInstruction,
			OutputSuffix: "_sft_ready",
		},
	}
}

// configValidator is shared by LoadConfig and Validate.
var configValidator = newConfigValidator()

// Validate checks every section of the configuration.
func (c EvalConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			ve := domain.NewValidationError("EvalConfig")
			for _, fe := range verrs {
				ve.AddError(fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return ve
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err)
	}
	return nil
}

// ParseConfig overlays YAML data onto DefaultEvalConfig and validates the
// result. Unknown keys are rejected.
func ParseConfig(data []byte) (EvalConfig, error) {
	cfg := DefaultEvalConfig()
	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return EvalConfig{}, ports.NewConfigError("yaml", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return EvalConfig{}, err
	}
	return cfg, nil
}

// LoadConfig reads path and parses it with ParseConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (EvalConfig, error) {
	if path == "" {
		return DefaultEvalConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return EvalConfig{}, ports.NewConfigError(path, errors.Join(ports.ErrConfigNotFound, err))
		}
		return EvalConfig{}, ports.NewConfigError(path, err)
	}
	return ParseConfig(data)
}
