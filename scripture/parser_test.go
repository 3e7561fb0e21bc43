package scripture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBareBookName(t *testing.T) {
	units, err := Parse("  John  ")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, ParsedUnit{Book: "John", Chapter: 1, VerseStart: 1, VerseEnd: 1}, units[0])
}

func TestParseBareBookNameNormalized(t *testing.T) {
	units, err := Parse("Psalm")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Psalms", units[0].Book)
}

func TestParseSingleVerse(t *testing.T) {
	units, err := Parse("John 3:16")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, ParsedUnit{Book: "John", Chapter: 3, VerseStart: 16, VerseEnd: 16}, units[0])
}

func TestParseSimpleRange(t *testing.T) {
	units, err := Parse("Psalm 23:1-6")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, ParsedUnit{Book: "Psalms", Chapter: 23, VerseStart: 1, VerseEnd: 6}, units[0])
}

func TestParseOpenRange(t *testing.T) {
	units, err := Parse("Isaiah 6:1-end")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, ParsedUnit{Book: "Isaiah", Chapter: 6, VerseStart: 1, VerseEnd: EndOfChapter}, units[0])
}

func TestParseDiscontinuousBareContinuation(t *testing.T) {
	units, err := Parse("Psalm 104:26-36,37")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, ParsedUnit{Book: "Psalms", Chapter: 104, VerseStart: 26, VerseEnd: 36}, units[0])
	assert.Equal(t, ParsedUnit{Book: "Psalms", Chapter: 104, VerseStart: 37, VerseEnd: 37}, units[1])
}

func TestParseDiscontinuousRespecifiedSegment(t *testing.T) {
	units, err := Parse("Psalm 104:26-36, John 3:16, 17")
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, ParsedUnit{Book: "Psalms", Chapter: 104, VerseStart: 26, VerseEnd: 36}, units[0])
	assert.Equal(t, ParsedUnit{Book: "John", Chapter: 3, VerseStart: 16, VerseEnd: 16}, units[1])
	// Bare "17" reuses the most recent book and chapter.
	assert.Equal(t, ParsedUnit{Book: "John", Chapter: 3, VerseStart: 17, VerseEnd: 17}, units[2])
}

func TestParseDiscontinuousSegmentsKeepSourceOrder(t *testing.T) {
	units, err := Parse("Psalm 139:12-17, 1-5")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, 12, units[0].VerseStart)
	assert.Equal(t, 1, units[1].VerseStart)
}

func TestParseCrossChapter(t *testing.T) {
	units, err := Parse("John 3:16-4:1")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, ParsedUnit{Book: "John", Chapter: 3, VerseStart: 16, VerseEnd: EndOfChapter}, units[0])
	assert.Equal(t, ParsedUnit{Book: "John", Chapter: 4, VerseStart: 1, VerseEnd: 1}, units[1])
}

func TestParseCrossChapterSameChapterReduces(t *testing.T) {
	units, err := Parse("John 3:16-3:18")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, ParsedUnit{Book: "John", Chapter: 3, VerseStart: 16, VerseEnd: 18}, units[0])
}

func TestParseStripsRolePrefix(t *testing.T) {
	units, err := Parse("Gospel: John 3:16")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "John", units[0].Book)
	assert.Equal(t, 3, units[0].Chapter)

	units, err = Parse("First Reading: Isaiah 6:1-8")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Isaiah", units[0].Book)
}

func TestParseVerseSuffixStripped(t *testing.T) {
	units, err := Parse("John 3:19a")
	require.NoError(t, err)
	assert.Equal(t, 19, units[0].VerseStart)
	assert.Equal(t, 19, units[0].VerseEnd)

	units, err = Parse("John 3:2-19a")
	require.NoError(t, err)
	assert.Equal(t, 2, units[0].VerseStart)
	assert.Equal(t, 19, units[0].VerseEnd)
}

func TestParseEmptyReference(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrUnrecognized)

	_, err = Parse("   ")
	assert.ErrorIs(t, err, ErrUnrecognized)
}

func TestParseMultiWordBook(t *testing.T) {
	units, err := Parse("Song of Songs 2:10-13")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Song of Songs", units[0].Book)
	assert.Equal(t, 2, units[0].Chapter)
}

func TestStripRolePrefixNotRecursive(t *testing.T) {
	// Exactly one prefix strip, anchored at the start.
	assert.Equal(t, "Psalm: John 3:16", StripRolePrefix("Gospel: Psalm: John 3:16"))
	assert.Equal(t, "Reading about Gospel: things", StripRolePrefix("Reading about Gospel: things"))
}

func TestNormalizeBookPassthrough(t *testing.T) {
	assert.Equal(t, "Psalms", NormalizeBook("Ps"))
	assert.Equal(t, "Obadiah", NormalizeBook("Obadiah"))
}
