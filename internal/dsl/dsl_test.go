package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWashIdempotence(t *testing.T) {
	inputs := []string{
		"plain text",
		"before <!-- comment --> after",
		"before <!-- unterminated",
		"  \n  leading and trailing  \n  ",
		"<!-- a --><!-- b -->kept",
	}
	for _, in := range inputs {
		once := wash(in)
		twice := wash(once)
		assert.Equal(t, once, twice, "wash must be idempotent for %q", in)
	}
}

func TestWashRemovesTerminatedComment(t *testing.T) {
	assert.Equal(t, "before  after", wash("before <!-- drop me --> after"))
}

func TestWashTruncatesUnterminatedComment(t *testing.T) {
	assert.Equal(t, "before", wash("before <!-- never closes"))
}

func TestParseTaskBatchIndentAndLink(t *testing.T) {
	input := "jump https://jump\n    step\n    http://step"
	req, perr := Parse(input)
	require.Nil(t, perr)
	require.Nil(t, req.Command)
	require.Len(t, req.Tasks, 2)

	jump := req.Tasks[0]
	assert.Equal(t, 0, jump.Indent)
	assert.Equal(t, "jump", jump.Attribute.Title)
	require.NotNil(t, jump.Link)
	assert.Equal(t, "https://jump", *jump.Link)

	step := req.Tasks[1]
	assert.Equal(t, 1, step.Indent)
	assert.Equal(t, "step", step.Attribute.Title)
	require.NotNil(t, step.Link)
	assert.Equal(t, "http://step", *step.Link)
}

func TestParseTaskBatchRejectsPartialIndent(t *testing.T) {
	_, perr := ParseTaskBatch("  twospaces")
	require.NotNil(t, perr)
	assert.Equal(t, UnexpectedChar, perr.Kind)
}

func TestParseTaskBatchRejectsEmptyTitle(t *testing.T) {
	_, perr := Parse("#5 *")
	require.NotNil(t, perr)
	assert.Equal(t, EmptyTitle, perr.Kind)
}

func TestParseAttributesStarredIDWeight(t *testing.T) {
	req, perr := Parse("* #5 $2.5 write the report")
	require.Nil(t, perr)
	require.Len(t, req.Tasks, 1)
	a := req.Tasks[0].Attribute
	assert.True(t, a.IsStarred)
	require.NotNil(t, a.ID)
	assert.EqualValues(t, 5, *a.ID)
	require.NotNil(t, a.Weight)
	assert.InDelta(t, 2.5, *a.Weight, 1e-9)
	assert.Equal(t, "write the report", a.Title)
}

func TestParseAttributesJoint(t *testing.T) {
	req, perr := Parse("[tag leaf task\n[other tag] root task")
	require.Nil(t, perr)
	require.Len(t, req.Tasks, 2)
	require.NotNil(t, req.Tasks[0].Attribute.JointTail)
	assert.Equal(t, "tag", *req.Tasks[0].Attribute.JointTail)
}

func TestParseCommandHelp(t *testing.T) {
	req, perr := Parse("/")
	require.Nil(t, perr)
	require.NotNil(t, req.Command)
	assert.Equal(t, Help, req.Command.Kind)
}

func TestParseCommandUserInfo(t *testing.T) {
	req, perr := Parse("/u")
	require.Nil(t, perr)
	require.NotNil(t, req.Command)
	assert.Equal(t, User, req.Command.Kind)
	assert.Equal(t, UserInfo, req.Command.User.Kind)
}

func TestParseCommandUserAllocations(t *testing.T) {
	req, perr := Parse("/u -a 9:0-8h 13:30-2h")
	require.Nil(t, perr)
	require.NotNil(t, req.Command)
	specs := req.Command.User.Allocations
	require.Len(t, specs, 2)
	assert.Equal(t, AllocationSpec{OpenHour: 9, OpenMinute: 0, Hours: 8}, specs[0])
	assert.Equal(t, AllocationSpec{OpenHour: 13, OpenMinute: 30, Hours: 2}, specs[1])
}

func TestParseConditionRanges(t *testing.T) {
	conds, perr := ParseConditions("333<#<777 -a!s -l .5<w<24")
	require.Nil(t, perr)
	require.Len(t, conds, 1)
	c := conds[0]
	require.NotNil(t, c.Context.Lo)
	require.NotNil(t, c.Context.Hi)
	assert.Equal(t, 333, *c.Context.Lo)
	assert.Equal(t, 777, *c.Context.Hi)
	require.NotNil(t, c.Archived)
	assert.True(t, *c.Archived)
	require.NotNil(t, c.Starred)
	assert.False(t, *c.Starred)
	require.NotNil(t, c.Leaf)
	assert.True(t, *c.Leaf)
	assert.Nil(t, c.Root)
	require.NotNil(t, c.Weight.Lo)
	assert.InDelta(t, 0.5, *c.Weight.Lo, 1e-9)
}

func TestParseConditionQuotedWords(t *testing.T) {
	conds, perr := ParseConditions(`"fix bug"`)
	require.Nil(t, perr)
	require.NotNil(t, conds[0].Title)
	assert.Equal(t, []string{"fix", "bug"}, conds[0].Title.List)
}

func TestParseConditionRegex(t *testing.T) {
	conds, perr := ParseConditions(`@r"^alice$"`)
	require.Nil(t, perr)
	require.NotNil(t, conds[0].Assign)
	assert.Equal(t, "^alice$", conds[0].Assign.Src)
}

func TestParseConditionUnterminatedQuote(t *testing.T) {
	_, perr := ParseConditions(`"never closes`)
	require.NotNil(t, perr)
	assert.Equal(t, UnterminatedQuote, perr.Kind)
}
