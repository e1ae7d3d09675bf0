package hl7

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hl7errors "github.com/jacoelho/hl7/errors"
)

const omlMessage = "MSH|^~\\&|GHH_ADT||||20080115153000||OML^O33^OML_O33|0123456789|P|2.5||||AL\r" +
	"PID|1||566-554-3423^^^GHH^MR||EVERYMAN^ADAM^A|||M|||2222 HOME STREET^^ANN ARBOR^MI^^USA||555-555-2004|||M\r"

func TestParseMessageAssignsGroups(t *testing.T) {
	p := newTestParser(t)

	msg, err := p.ParseMessage(omlMessage)
	require.NoError(t, err)

	assert.Equal(t, "OML_O33", msg.Name)
	assert.Equal(t, "2.5", msg.Version)
	require.Equal(t, []string{"MSH", "OML_O33_PATIENT"}, childNames(msg))

	patient := msg.Children()[1]
	assert.Equal(t, KindGroup, patient.Kind)
	assert.Equal(t, []string{"PID"}, childNames(patient))
}

func TestParseMessageFieldContents(t *testing.T) {
	p := newTestParser(t)

	msg, err := p.ParseMessage(omlMessage)
	require.NoError(t, err)

	msh := msg.Children()[0]
	require.Equal(t, "MSH", msh.Name)
	assert.Equal(t, "MSH_1", msh.Children()[0].Name)
	assert.Equal(t, "|", leafValue(t, msh.Children()[0]))
	assert.Equal(t, "^~\\&", leafValue(t, msh.Children()[1]))
	assert.Equal(t, "MSH_3", msh.Children()[2].Name)
	assert.Equal(t, "GHH_ADT", leafValue(t, msh.Children()[2]))
}

func TestParseMessageUnknownStructureStaysFlat(t *testing.T) {
	p := newTestParser(t)

	msg, err := p.ParseMessage("MSH|^~\\&|A|B|C|D|E\rEVN||X\r")
	require.NoError(t, err)

	assert.Empty(t, msg.Name)
	require.Equal(t, []string{"MSH", "EVN"}, childNames(msg))
	for _, c := range msg.Children() {
		assert.Equal(t, KindSegment, c.Kind)
	}
}

func TestParseMessageWithoutGroups(t *testing.T) {
	p := newTestParser(t, WithoutGroups())

	msg, err := p.ParseMessage(omlMessage)
	require.NoError(t, err)

	assert.Equal(t, "OML_O33", msg.Name)
	require.Equal(t, []string{"MSH", "PID"}, childNames(msg))
	assert.Equal(t, KindSegment, msg.Children()[1].Kind)
}

func TestParseMessageRepeatedInsuranceGroups(t *testing.T) {
	p := newTestParser(t)

	text := "MSH|^~\\&|send|fac|||20080115153000||ADT^A01^ADT_A01|ctrl|P|2.5\r" +
		"EVN|A01|20080115153000\r" +
		"PID|1||123^^^HOSP^MR\r" +
		"PV1|1|I\r" +
		"IN1|1|PLAN1\r" +
		"IN1|2|PLAN2\r"

	msg, err := p.ParseMessage(text)
	require.NoError(t, err)

	require.Equal(t, []string{"MSH", "EVN", "PID", "PV1", "ADT_A01_INSURANCE", "ADT_A01_INSURANCE"}, childNames(msg))
	assert.Equal(t, []string{"IN1"}, childNames(msg.Children()[4]))
	assert.Equal(t, []string{"IN1"}, childNames(msg.Children()[5]))
}

func TestParseMessageLeadingWhitespace(t *testing.T) {
	p := newTestParser(t)

	msg, err := p.ParseMessage("\n  " + omlMessage)
	require.NoError(t, err)
	assert.Equal(t, "OML_O33", msg.Name)
}

func TestParseMessageIdempotent(t *testing.T) {
	p := newTestParser(t)

	first, err := p.ParseMessage(omlMessage)
	require.NoError(t, err)
	second, err := p.ParseMessage(omlMessage)
	require.NoError(t, err)

	assertEqualTrees(t, first, second)
}

func assertEqualTrees(t *testing.T, want, got *Element) {
	t.Helper()
	require.Equal(t, want.Kind, got.Kind)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Datatype, got.Datatype)
	require.Equal(t, want.Version, got.Version)
	require.Equal(t, want.Value, got.Value)
	require.Len(t, got.Children(), len(want.Children()))
	for i, c := range want.Children() {
		assertEqualTrees(t, c, got.Children()[i])
	}
}

func TestParseMessageUnsupportedVersion(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseMessage("MSH|^~\\&|a|b|c|d|e|f|g|h|i|9.9\r")
	require.Error(t, err)
	assert.True(t, hl7errors.HasCode(err, hl7errors.ErrUnsupportedVersion))
}

func TestParseMessageDefaultsVersionWhenAbsent(t *testing.T) {
	p := newTestParser(t)

	msg, err := p.ParseMessage("MSH|^~\\&|A\rEVN||X\r")
	require.NoError(t, err)
	assert.Equal(t, "2.5", msg.Version)
}

func TestParseMessageInvalid(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseMessage("NOTHL7")
	require.Error(t, err)
	assert.True(t, hl7errors.HasCode(err, hl7errors.ErrInvalidMessage))
}

func TestNewRejectsUnsupportedDefaultVersion(t *testing.T) {
	_, err := New(WithVersion("0.1"))
	require.Error(t, err)
	assert.True(t, hl7errors.HasCode(err, hl7errors.ErrUnsupportedVersion))
}

func TestNewRejectsDuplicateEncodingChars(t *testing.T) {
	ec := DefaultEncodingChars()
	ec.Component = '|'
	_, err := New(WithEncodingChars(ec))
	require.Error(t, err)
}

func TestParserConcurrentUse(t *testing.T) {
	p := newTestParser(t)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				if _, err := p.ParseMessage(omlMessage); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}
