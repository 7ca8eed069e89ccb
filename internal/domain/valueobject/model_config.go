package valueobject

// ModelConfig 模型配置值对象（不可变）
type ModelConfig struct {
	model           string
	maxOutputTokens int
	temperature     float64
	topP            float64
	topK            int
}

// NewModelConfig 创建模型配置
func NewModelConfig(model string, maxOutputTokens int, temperature, topP float64, topK int) ModelConfig {
	return ModelConfig{
		model:           model,
		maxOutputTokens: maxOutputTokens,
		temperature:     temperature,
		topP:            topP,
		topK:            topK,
	}
}

// DefaultModelConfig is the chat generation profile used for the concierge.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		model:           "gemini-2.0-flash",
		maxOutputTokens: 2048,
		temperature:     0.7,
		topP:            0.95,
		topK:            40,
	}
}

// Model 返回模型名称
func (mc ModelConfig) Model() string {
	return mc.model
}

// MaxOutputTokens 返回最大令牌数
func (mc ModelConfig) MaxOutputTokens() int {
	return mc.maxOutputTokens
}

// Temperature 返回温度参数
func (mc ModelConfig) Temperature() float64 {
	return mc.temperature
}

// TopP 返回 Top-P 参数
func (mc ModelConfig) TopP() float64 {
	return mc.topP
}

// TopK 返回 Top-K 参数
func (mc ModelConfig) TopK() int {
	return mc.topK
}

// WithModel returns a copy that targets another model.
func (mc ModelConfig) WithModel(model string) ModelConfig {
	mc.model = model
	return mc
}

// WithTemperature 创建新的配置（修改温度）
func (mc ModelConfig) WithTemperature(temp float64) ModelConfig {
	mc.temperature = temp
	return mc
}

// Equals 值对象相等性比较
func (mc ModelConfig) Equals(other ModelConfig) bool {
	return mc == other
}
