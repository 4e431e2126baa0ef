package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocumentNumber_DateAndPaddedSequence(t *testing.T) {
	issuedAt := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)

	out, err := FormatDocumentNumber("INV-{YYYY}{MM}-{SEQ4}", issuedAt, 42)
	require.NoError(t, err)
	assert.Equal(t, "INV-202603-0042", out)
}

func TestFormatDocumentNumber_AllTokens(t *testing.T) {
	issuedAt := time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)

	out, err := FormatDocumentNumber("{YY}/{MM}/{DD}-{SEQ}", issuedAt, 7)
	require.NoError(t, err)
	assert.Equal(t, "26/01/09-7", out)
}

func TestFormatDocumentNumber_SequenceWiderThanPadding(t *testing.T) {
	issuedAt := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	out, err := FormatDocumentNumber("QUO-{SEQ2}", issuedAt, 123)
	require.NoError(t, err)
	assert.Equal(t, "QUO-123", out)
}

func TestFormatDocumentNumber_EmptyTemplate(t *testing.T) {
	_, err := FormatDocumentNumber("", time.Now(), 1)
	assert.Error(t, err)
}

func TestFormatDocumentNumber_InvalidSequence(t *testing.T) {
	_, err := FormatDocumentNumber("INV-{SEQ}", time.Now(), 0)
	assert.Error(t, err)
}

func TestFormatDocumentNumber_UnresolvedToken(t *testing.T) {
	_, err := FormatDocumentNumber("INV-{WAT}-{SEQ}", time.Now(), 1)
	assert.Error(t, err)
}
