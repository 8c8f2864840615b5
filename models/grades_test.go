package models

import (
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

func TestFetchResult_First(t *testing.T) {
	first := GradeRecord{TokenName: mo.Some("Bitcoin")}
	second := GradeRecord{TokenName: mo.Some("Wrapped Bitcoin")}

	success := FetchSuccess([]GradeRecord{first, second})
	assert.False(t, success.IsFailure())
	assert.NoError(t, success.Cause())
	assert.Equal(t, mo.Some(first), success.First())
	assert.Len(t, success.Records(), 2)

	empty := FetchSuccess(nil)
	assert.False(t, empty.IsFailure())
	assert.True(t, empty.First().IsAbsent())

	cause := errors.New("provider down")
	failure := FetchFailure(cause)
	assert.True(t, failure.IsFailure())
	assert.Equal(t, cause, failure.Cause())
	assert.True(t, failure.First().IsAbsent())
}

func TestFetchFailure_NilCausePanics(t *testing.T) {
	assert.Panics(t, func() { FetchFailure(nil) })
}

func TestColorTag_Int(t *testing.T) {
	assert.Equal(t, 0x00ff00, ColorGreen.Int())
	assert.Equal(t, 0xff9900, ColorOrange.Int())
	assert.Equal(t, 0x0099ff, ColorBlue.Int())
	assert.Equal(t, 0, ColorTag("purple").Int())
}

func TestRouteOutcomeConstructors(t *testing.T) {
	cmd := Command{Kind: CommandKindPrice, Keyword: "!price", RequiresArgument: true}

	assert.Equal(t, RouteNoMatch, NoMatch().Kind)
	assert.Equal(t, "no_match", NoMatch().Kind.String())

	missing := MissingArgument(cmd)
	assert.Equal(t, RouteMissingArgument, missing.Kind)
	assert.Equal(t, cmd, missing.Command)
	assert.Empty(t, missing.Symbol)

	matched := Matched(cmd, "BTC")
	assert.Equal(t, "matched", matched.Kind.String())
	assert.Equal(t, "BTC", matched.Symbol)
}
