package scoring

// Option applies a configuration option to the PretrainedModel.
type Option func(*PretrainedModel)

// WithParams loads an initial parameter set. Invalid parameter sets are
// ignored and the model stays unloaded.
func WithParams(p Params) Option {
	return func(m *PretrainedModel) {
		_ = m.Load(p)
	}
}
