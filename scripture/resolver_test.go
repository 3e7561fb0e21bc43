package scripture

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves chapters from an in-memory map keyed "Book chapter".
type fakeProvider struct {
	chapters map[string]map[string]string
	failOn   map[string]bool
	fetches  []string
	versions []string
}

func (f *fakeProvider) GetChapter(_ context.Context, book, chapter, version string) (ChapterData, error) {
	key := book + " " + chapter
	f.fetches = append(f.fetches, key)
	f.versions = append(f.versions, version)
	if f.failOn[key] {
		return ChapterData{}, fmt.Errorf("fetch failed for %s", key)
	}
	verses, ok := f.chapters[key]
	if !ok {
		return ChapterData{}, fmt.Errorf("no such chapter %s", key)
	}
	return ChapterData{Book: book, Chapter: chapter, Verses: verses}, nil
}

// fakeParsingProvider also supports provider-delegated parsing.
type fakeParsingProvider struct {
	fakeProvider
	result ParsedText
	err    error
}

func (f *fakeParsingProvider) ParseReference(_ context.Context, reference, version string) (ParsedText, error) {
	if f.err != nil {
		return ParsedText{}, f.err
	}
	return f.result, nil
}

func numberedChapter(from, to int) map[string]string {
	verses := make(map[string]string, to-from+1)
	for v := from; v <= to; v++ {
		verses[strconv.Itoa(v)] = fmt.Sprintf("text of verse %d", v)
	}
	return verses
}

var verseNumRe = regexp.MustCompile(`verse-num">(\d+)<`)

func renderedNumbers(markup string) []string {
	var nums []string
	for _, m := range verseNumRe.FindAllStringSubmatch(markup, -1) {
		nums = append(nums, m[1])
	}
	return nums
}

func TestNewResolverRequiresProvider(t *testing.T) {
	_, err := NewResolver(nil)
	assert.Error(t, err)
}

func TestNewResolverDelegatedRequiresReferenceParser(t *testing.T) {
	_, err := NewResolver(&fakeProvider{}, WithDelegatedParsing())
	assert.Error(t, err)

	_, err = NewResolver(&fakeParsingProvider{}, WithDelegatedParsing())
	assert.NoError(t, err)
}

func TestResolveSingleVerse(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"John 3": numberedChapter(1, 36),
	}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "John 3:16")
	assert.True(t, reading.Resolved)
	assert.Equal(t, []string{"16"}, renderedNumbers(reading.Text))
	assert.Contains(t, reading.Text, "text of verse 16")
}

func TestResolveDiscontinuousKeepsOrder(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"Psalms 104": numberedChapter(1, 37),
	}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "Psalm 104:26-36,37")
	require.True(t, reading.Resolved)

	var want []string
	for v := 26; v <= 37; v++ {
		want = append(want, strconv.Itoa(v))
	}
	assert.Equal(t, want, renderedNumbers(reading.Text))
	// One fetch for the single (book, chapter) pair touched.
	assert.Equal(t, []string{"Psalms 104"}, provider.fetches)
}

func TestResolveCrossChapter(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"John 3": numberedChapter(1, 36),
		"John 4": numberedChapter(1, 54),
	}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "John 3:16-4:1")
	require.True(t, reading.Resolved)

	nums := renderedNumbers(reading.Text)
	require.Len(t, nums, 22) // 16..36 of chapter 3, then verse 1 of chapter 4
	assert.Equal(t, "16", nums[0])
	assert.Equal(t, "36", nums[20])
	assert.Equal(t, "1", nums[21])
}

func TestResolveOpenEndedRange(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"Isaiah 6": numberedChapter(1, 13),
	}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "Isaiah 6:8-end")
	require.True(t, reading.Resolved)
	assert.Equal(t, []string{"8", "9", "10", "11", "12", "13"}, renderedNumbers(reading.Text))
}

func TestResolveMissingVersesSkipped(t *testing.T) {
	verses := numberedChapter(1, 10)
	delete(verses, "4")
	provider := &fakeProvider{chapters: map[string]map[string]string{"Mark 1": verses}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "Mark 1:2-6")
	require.True(t, reading.Resolved)
	assert.Equal(t, []string{"2", "3", "5", "6"}, renderedNumbers(reading.Text))
}

func TestResolveFailedSegmentDoesNotAbortSiblings(t *testing.T) {
	provider := &fakeProvider{
		chapters: map[string]map[string]string{"John 3": numberedChapter(1, 36)},
		failOn:   map[string]bool{"John 4": true},
	}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "John 3:16-4:1")
	require.True(t, reading.Resolved)
	nums := renderedNumbers(reading.Text)
	assert.Equal(t, "16", nums[0])
	assert.Equal(t, "36", nums[len(nums)-1])
}

func TestResolveEmptyResultIsSentinel(t *testing.T) {
	provider := &fakeProvider{failOn: map[string]bool{"John 3": true}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "John 3:16")
	assert.False(t, reading.Resolved)
	assert.Equal(t, "[Reading: John 3:16]", reading.DisplayText())
}

func TestResolveUnparseableReferenceIsSentinel(t *testing.T) {
	r, err := NewResolver(&fakeProvider{})
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "")
	assert.False(t, reading.Resolved)
	assert.Equal(t, "[Reading: ]", reading.DisplayText())
}

func TestResolveAlternatives(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"Isaiah 6": numberedChapter(1, 13),
	}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "Isaiah 6:1-4 or Isaiah 6:1-8")
	assert.True(t, reading.IsAlternative)
	assert.Equal(t, "", reading.DisplayText())
	require.Len(t, reading.Alternatives, 2)
	assert.True(t, reading.Alternatives[0].Resolved)
	assert.True(t, reading.Alternatives[1].Resolved)
	assert.Len(t, renderedNumbers(reading.Alternatives[0].Text), 4)
	assert.Len(t, renderedNumbers(reading.Alternatives[1].Text), 8)

	raw, err := json.Marshal(reading)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["text"])
	assert.Equal(t, true, decoded["is_alternative"])
}

func TestResolveIdempotent(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"Psalms 104": numberedChapter(1, 37),
	}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	first := r.Resolve(context.Background(), "Psalm 104:26-36,37")
	second := r.Resolve(context.Background(), "Psalm 104:26-36,37")
	assert.Equal(t, first.Text, second.Text)
}

func TestResolveReadingsPreservesOrder(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"John 3":   numberedChapter(1, 36),
		"Psalms 23": numberedChapter(1, 6),
	}}
	r, err := NewResolver(provider)
	require.NoError(t, err)

	readings := r.ResolveReadings(context.Background(), []string{"Psalm 23:1-6", "John 3:16", "nonsense:ref:"})
	require.Len(t, readings, 3)
	assert.Equal(t, "Psalm 23:1-6", readings[0].Reference)
	assert.True(t, readings[0].Resolved)
	assert.True(t, readings[1].Resolved)
	assert.False(t, readings[2].Resolved)
}

func TestResolveVersionPassedToProvider(t *testing.T) {
	provider := &fakeProvider{chapters: map[string]map[string]string{
		"John 3": numberedChapter(1, 36),
	}}
	r, err := NewResolver(provider, WithVersion("web"))
	require.NoError(t, err)

	r.Resolve(context.Background(), "John 3:16")
	require.NotEmpty(t, provider.versions)
	assert.Equal(t, "web", provider.versions[0])
}

func TestResolveDelegated(t *testing.T) {
	provider := &fakeParsingProvider{
		result: ParsedText{Parsed: true, FormattedText: "<p>from provider</p>"},
	}
	r, err := NewResolver(provider, WithDelegatedParsing())
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "John 3:16")
	assert.True(t, reading.Resolved)
	assert.Equal(t, "<p>from provider</p>", reading.Text)
	// Delegated mode never fetches chapters itself.
	assert.Empty(t, provider.fetches)
}

func TestResolveDelegatedParseFailureIsSentinel(t *testing.T) {
	provider := &fakeParsingProvider{
		result: ParsedText{Parsed: false, Error: "unknown book"},
	}
	r, err := NewResolver(provider, WithDelegatedParsing())
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "Nonsense 1:1")
	assert.False(t, reading.Resolved)
	assert.Equal(t, "[Reading: Nonsense 1:1]", reading.DisplayText())
}

func TestResolveDelegatedTransportErrorIsSentinel(t *testing.T) {
	provider := &fakeParsingProvider{err: fmt.Errorf("connection refused")}
	r, err := NewResolver(provider, WithDelegatedParsing())
	require.NoError(t, err)

	reading := r.Resolve(context.Background(), "John 3:16")
	assert.False(t, reading.Resolved)
	assert.Equal(t, "[Reading: John 3:16]", reading.DisplayText())
}
