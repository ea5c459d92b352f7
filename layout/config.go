package layout

// Config aggregates the configuration of every layout stage
type Config struct {
	FontProfile  FontProfileConfig
	Noise        NoiseConfig
	Heading      HeadingConfig
	Code         CodeConfig
	Order        OrderConfig
	Paragraph    ParagraphConfig
	HeadingMerge HeadingMergeConfig
}

// DefaultConfig returns the default configuration for all stages
func DefaultConfig() Config {
	return Config{
		FontProfile:  DefaultFontProfileConfig(),
		Noise:        DefaultNoiseConfig(),
		Heading:      DefaultHeadingConfig(),
		Code:         DefaultCodeConfig(),
		Order:        DefaultOrderConfig(),
		Paragraph:    DefaultParagraphConfig(),
		HeadingMerge: DefaultHeadingMergeConfig(),
	}
}
