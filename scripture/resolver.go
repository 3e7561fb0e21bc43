// scripture/resolver.go - Reference resolution against a verse-data provider
package scripture

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// altDelimiter separates alternative readings. Only one level of splitting
// is supported.
const altDelimiter = " or "

// Resolver turns reference strings into resolved readings. It holds no
// mutable cross-call state: resolution is a pure function of the reference
// and the provider's state at call time.
type Resolver struct {
	provider  Provider
	delegate  ReferenceParser
	delegated bool
	version   string
	log       *zap.Logger
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithVersion sets the Bible translation requested from the provider.
func WithVersion(version string) Option {
	return func(r *Resolver) {
		if version != "" {
			r.version = version
		}
	}
}

// WithLogger sets the resolver's logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithDelegatedParsing makes the resolver bypass local parsing entirely and
// hand each reference to the provider's ParseReference. The choice is fixed
// for the resolver's lifetime.
func WithDelegatedParsing() Option {
	return func(r *Resolver) {
		r.delegated = true
	}
}

// NewResolver builds a resolver around the given provider. Delegated parsing
// requires a provider that implements ReferenceParser; that mismatch is a
// construction error, not a resolution-time failure.
func NewResolver(provider Provider, opts ...Option) (*Resolver, error) {
	if provider == nil {
		return nil, errors.New("scripture: provider is required")
	}
	r := &Resolver{
		provider: provider,
		version:  DefaultVersion,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.delegated {
		parser, ok := provider.(ReferenceParser)
		if !ok {
			return nil, errors.New("scripture: delegated parsing requires a ReferenceParser provider")
		}
		r.delegate = parser
	}
	return r, nil
}

// Version reports the translation this resolver requests.
func (r *Resolver) Version() string { return r.version }

// ResolveReadings resolves each reference in order.
func (r *Resolver) ResolveReadings(ctx context.Context, references []string) []ResolvedReading {
	out := make([]ResolvedReading, 0, len(references))
	for _, ref := range references {
		out = append(out, r.Resolve(ctx, ref))
	}
	return out
}

// Resolve parses and fetches a single reference. References joined by " or "
// become an alternative container whose branches are each resolved fully and
// independently.
func (r *Resolver) Resolve(ctx context.Context, reference string) ResolvedReading {
	branches := strings.Split(reference, altDelimiter)
	if len(branches) > 1 {
		alts := make([]ResolvedReading, 0, len(branches))
		for _, branch := range branches {
			alts = append(alts, r.resolveOne(ctx, strings.TrimSpace(branch)))
		}
		return ResolvedReading{
			Reference:     reference,
			Resolved:      true,
			IsAlternative: true,
			Alternatives:  alts,
		}
	}
	return r.resolveOne(ctx, reference)
}

func (r *Resolver) resolveOne(ctx context.Context, reference string) ResolvedReading {
	if r.delegated {
		return r.resolveDelegated(ctx, reference)
	}

	units, err := Parse(reference)
	if err != nil {
		r.log.Debug("reference not recognized",
			zap.String("reference", reference),
			zap.Error(err))
		return ResolvedReading{Reference: reference}
	}

	verses := r.assemble(ctx, units)
	if len(verses) == 0 {
		return ResolvedReading{Reference: reference}
	}
	return ResolvedReading{
		Reference: reference,
		Text:      Format(verses),
		Resolved:  true,
	}
}

func (r *Resolver) resolveDelegated(ctx context.Context, reference string) ResolvedReading {
	result, err := r.delegate.ParseReference(ctx, reference, r.version)
	if err != nil {
		r.log.Warn("delegated parse failed",
			zap.String("reference", reference),
			zap.Error(err))
		return ResolvedReading{Reference: reference}
	}
	if !result.Parsed {
		r.log.Debug("provider could not parse reference",
			zap.String("reference", reference),
			zap.String("provider_error", result.Error))
		return ResolvedReading{Reference: reference}
	}
	return ResolvedReading{
		Reference: reference,
		Text:      result.FormattedText,
		Resolved:  true,
	}
}

type chapterKey struct {
	book    string
	chapter int
}

// assemble fetches each distinct (book, chapter) once and collects verses in
// segment order. A failed fetch degrades that segment to zero verses; absent
// verse numbers are skipped silently.
func (r *Resolver) assemble(ctx context.Context, units []ParsedUnit) []VerseRecord {
	chapters := make(map[chapterKey]*ChapterData)
	var verses []VerseRecord
	for _, unit := range units {
		key := chapterKey{unit.Book, unit.Chapter}
		data, seen := chapters[key]
		if !seen {
			fetched, err := r.provider.GetChapter(ctx, unit.Book, strconv.Itoa(unit.Chapter), r.version)
			if err != nil {
				r.log.Warn("chapter fetch failed",
					zap.String("book", unit.Book),
					zap.Int("chapter", unit.Chapter),
					zap.Error(err))
				chapters[key] = nil
				continue
			}
			data = &fetched
			chapters[key] = data
		}
		if data == nil {
			continue
		}

		end := unit.VerseEnd
		if end == EndOfChapter {
			end = lastVerse(data.Verses, unit.VerseStart)
		}
		for v := unit.VerseStart; v <= end; v++ {
			num := strconv.Itoa(v)
			text, ok := data.Verses[num]
			if !ok {
				continue
			}
			verses = append(verses, VerseRecord{Number: num, Text: text})
		}
	}
	return verses
}

// lastVerse finds the maximum integer-valued verse key. When the chapter has
// no integer keys the open range collapses to the start verse.
func lastVerse(verses map[string]string, fallback int) int {
	max := 0
	for key := range verses {
		if n, err := strconv.Atoi(key); err == nil && n > max {
			max = n
		}
	}
	if max == 0 {
		return fallback
	}
	return max
}
