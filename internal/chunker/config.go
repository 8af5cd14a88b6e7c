package chunker

import (
	"errors"
	"fmt"
)

const (
	// DefaultMaxCharacters is the hard chunk size budget used when no
	// explicit maximum is configured.
	DefaultMaxCharacters = 500

	// DefaultSeparator joins segment texts inside a chunk.
	DefaultSeparator = "\n"
)

// Configuration errors. All of them are raised by New/NewBySection before
// any segment is processed; chunking itself never fails.
var (
	ErrMaxCharacters   = errors.New("chunker: max characters must be greater than zero")
	ErrSoftMaxTooLarge = errors.New("chunker: soft max cannot exceed max characters")
	ErrNegativeOverlap = errors.New("chunker: overlap cannot be negative")
	ErrOverlapTooLarge = errors.New("chunker: overlap must be smaller than max characters")
	ErrNegativeCombine = errors.New("chunker: combine threshold cannot be negative")
)

// Config is the resolved, immutable configuration of one engine instance.
// Construct it through New/NewBySection with options; the zero value is not
// usable directly.
type Config struct {
	// MaxCharacters is the hard upper bound on any chunk's text length.
	MaxCharacters int
	// NewAfterNChars is the soft bound: a chunk already at or over this
	// size is closed before more content is added, even though more would
	// still fit under MaxCharacters. Defaults to MaxCharacters.
	NewAfterNChars int
	// Overlap is the number of trailing characters carried into the next
	// piece when an oversized segment is split.
	Overlap int
	// OverlapAll applies Overlap between ordinary adjacent chunks as well,
	// not only between split pieces.
	OverlapAll bool
	// CombineTextUnderNChars suppresses a Title boundary while the current
	// chunk is still below this size (by-section policy only). Zero disables
	// the suppression so every Title starts a new chunk. Defaults to
	// MaxCharacters.
	CombineTextUnderNChars int
	// MultipageSections allows a chunk to span page breaks (by-section
	// policy only). Default true.
	MultipageSections bool
	// IncludeOrigSegments retains the contributing segments on each output
	// chunk. Default true.
	IncludeOrigSegments bool
	// Separator joins segment texts within a chunk.
	Separator string
}

// Option customizes the engine configuration.
type Option func(*configOptions)

// configOptions collects explicitly-set values so defaults that depend on
// MaxCharacters can be resolved afterwards.
type configOptions struct {
	maxCharacters          *int
	newAfterNChars         *int
	overlap                *int
	overlapAll             *bool
	combineTextUnderNChars *int
	multipageSections      *bool
	includeOrigSegments    *bool
	separator              *string
}

// WithMaxCharacters sets the hard chunk size budget.
func WithMaxCharacters(n int) Option {
	return func(o *configOptions) { o.maxCharacters = &n }
}

// WithNewAfterNChars sets the soft chunk size budget.
func WithNewAfterNChars(n int) Option {
	return func(o *configOptions) { o.newAfterNChars = &n }
}

// WithOverlap sets the number of trailing characters repeated at the start
// of the next split piece.
func WithOverlap(n int) Option {
	return func(o *configOptions) { o.overlap = &n }
}

// WithOverlapAll applies overlap between ordinary chunks, not only split
// pieces.
func WithOverlapAll(v bool) Option {
	return func(o *configOptions) { o.overlapAll = &v }
}

// WithCombineTextUnderNChars sets the small-section combine threshold used
// by the by-section policy. Zero makes every Title start a new chunk.
func WithCombineTextUnderNChars(n int) Option {
	return func(o *configOptions) { o.combineTextUnderNChars = &n }
}

// WithMultipageSections controls whether chunks may span page breaks under
// the by-section policy.
func WithMultipageSections(v bool) Option {
	return func(o *configOptions) { o.multipageSections = &v }
}

// WithIncludeOrigSegments controls whether output chunks retain references
// to their contributing segments.
func WithIncludeOrigSegments(v bool) Option {
	return func(o *configOptions) { o.includeOrigSegments = &v }
}

// WithSeparator sets the string that joins segment texts inside a chunk.
func WithSeparator(sep string) Option {
	return func(o *configOptions) { o.separator = &sep }
}

// newConfig resolves options against defaults and validates the result.
func newConfig(opts ...Option) (Config, error) {
	var o configOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Config{
		MaxCharacters:       DefaultMaxCharacters,
		MultipageSections:   true,
		IncludeOrigSegments: true,
		Separator:           DefaultSeparator,
	}
	if o.maxCharacters != nil {
		cfg.MaxCharacters = *o.maxCharacters
	}

	// NewAfterNChars and CombineTextUnderNChars default to the hard max,
	// so they resolve after it.
	cfg.NewAfterNChars = cfg.MaxCharacters
	if o.newAfterNChars != nil {
		cfg.NewAfterNChars = *o.newAfterNChars
	}
	cfg.CombineTextUnderNChars = cfg.MaxCharacters
	if o.combineTextUnderNChars != nil {
		cfg.CombineTextUnderNChars = *o.combineTextUnderNChars
	}

	if o.overlap != nil {
		cfg.Overlap = *o.overlap
	}
	if o.overlapAll != nil {
		cfg.OverlapAll = *o.overlapAll
	}
	if o.multipageSections != nil {
		cfg.MultipageSections = *o.multipageSections
	}
	if o.includeOrigSegments != nil {
		cfg.IncludeOrigSegments = *o.includeOrigSegments
	}
	if o.separator != nil {
		cfg.Separator = *o.separator
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxCharacters <= 0 {
		return fmt.Errorf("%w: got %d", ErrMaxCharacters, c.MaxCharacters)
	}
	if c.NewAfterNChars > c.MaxCharacters {
		return fmt.Errorf("%w: %d > %d", ErrSoftMaxTooLarge, c.NewAfterNChars, c.MaxCharacters)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeOverlap, c.Overlap)
	}
	if c.Overlap >= c.MaxCharacters {
		return fmt.Errorf("%w: %d >= %d", ErrOverlapTooLarge, c.Overlap, c.MaxCharacters)
	}
	if c.CombineTextUnderNChars < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeCombine, c.CombineTextUnderNChars)
	}
	return nil
}
