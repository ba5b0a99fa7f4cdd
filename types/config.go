package types

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Chunking  ChunkingConfig  `mapstructure:"chunking" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"omitempty"`
	Output    OutputConfig    `mapstructure:"output"`
}

// ChunkingConfig bounds how operations are packed into chunks.
type ChunkingConfig struct {
	TargetTokensPerChunk int `mapstructure:"targetTokensPerChunk" validate:"required,min=1"`
	MaxTokensPerChunk    int `mapstructure:"maxTokensPerChunk" validate:"required,min=1,gtefield=TargetTokensPerChunk"`
	MinEndpointsPerChunk int `mapstructure:"minEndpointsPerChunk" validate:"required,min=1"`
	MaxEndpointsPerChunk int `mapstructure:"maxEndpointsPerChunk" validate:"required,min=1,gtefield=MinEndpointsPerChunk"`
	// SemanticGrouping packs each tag group independently when enabled.
	SemanticGrouping bool `mapstructure:"semanticGrouping"`
}

// RateLimitConfig derates nominal provider limits with safety margins before
// bucket capacities are computed.
type RateLimitConfig struct {
	TPMLimit         int     `mapstructure:"tpmLimit" validate:"required,min=1"`
	RPMLimit         int     `mapstructure:"rpmLimit" validate:"required,min=1"`
	TPMSafetyMargin  float64 `mapstructure:"tpmSafetyMargin" validate:"required,gt=0,lte=1"`
	RPMSafetyMargin  float64 `mapstructure:"rpmSafetyMargin" validate:"required,gt=0,lte=1"`
	AdaptiveBackoff  bool    `mapstructure:"adaptiveBackoff"`
}

// SchedulerConfig bounds parallel execution of generation tasks.
type SchedulerConfig struct {
	WorkerCount           int  `mapstructure:"workerCount" validate:"required,min=1"`
	PerTaskTimeoutSeconds int  `mapstructure:"perTaskTimeoutSeconds" validate:"required,min=1"`
	GlobalTimeoutSeconds  int  `mapstructure:"globalTimeoutSeconds" validate:"required,min=1"`
	MaxRetries            int  `mapstructure:"maxRetries" validate:"min=0,max=10"`
	GracefulDegradation   bool `mapstructure:"gracefulDegradation"`
}

// LLMConfig holds configuration for the generation-service provider.
type LLMConfig struct {
	// Provider membership is checked by llm.ValidateProvider during config
	// bootstrap, keeping the list next to the client factory.
	Provider    string  `mapstructure:"provider"`
	ModelName   string  `mapstructure:"modelName" validate:"omitempty,min=1"`
	APIKey      string  `mapstructure:"apiKey" validate:"omitempty,min=1"`
	BaseURL     string  `mapstructure:"baseURL" validate:"omitempty,url"`
	MaxTokens   int     `mapstructure:"maxTokens" validate:"omitempty,min=1"`
	Temperature float64 `mapstructure:"temperature" validate:"omitempty,min=0,max=2"`
	// Compression selects the payload optimizer level applied before
	// prompting: aggressive, balanced or conservative.
	Compression string `mapstructure:"compression" validate:"omitempty,oneof=aggressive balanced conservative"`
}

// OutputConfig controls where the merged artifact is written.
type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	File string `mapstructure:"file"`
}
