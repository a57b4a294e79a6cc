package compose

// Config holds configuration for composition runs.
type Config struct {
	// FuzzyThreshold is the minimum similarity reported as a fuzzy match.
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold" default:"0.6" validate:"gte=0,lte=1"`
	// Interactive asks for confirmation of each fuzzy match.
	// When false, fuzzy matches are accepted automatically.
	Interactive bool `mapstructure:"interactive" default:"true"`
	// OnReject is skip or abort.
	OnReject string `mapstructure:"on_reject" default:"skip" validate:"oneof=skip abort"`
	// FailOnUnresolved stops the run when any entry has no match.
	FailOnUnresolved bool `mapstructure:"fail_on_unresolved" default:"false"`
	// Workers bounds concurrent batch jobs.
	Workers int `mapstructure:"workers" default:"4" validate:"min=1"`
	// Master is the default master template, a path or s3:// URL.
	Master string `mapstructure:"master" default:""`
	// OutputDir is where composed documents go when no output path is given.
	OutputDir string `mapstructure:"output_dir" default:"output"`
}

// Options converts the configuration into run options.
func (c Config) Options(collisionPolicy string) Options {
	return Options{
		Threshold:        c.FuzzyThreshold,
		Interactive:      c.Interactive,
		OnReject:         OnReject(c.OnReject),
		FailOnUnresolved: c.FailOnUnresolved,
		CollisionPolicy:  collisionPolicy,
		Master:           c.Master,
	}
}
