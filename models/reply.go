package models

import (
	"time"

	"github.com/samber/mo"
)

type ColorTag string

const (
	ColorGreen  ColorTag = "green"
	ColorOrange ColorTag = "orange"
	ColorBlue   ColorTag = "blue"
)

var colorValues = map[ColorTag]int{
	ColorGreen:  0x00ff00,
	ColorOrange: 0xff9900,
	ColorBlue:   0x0099ff,
}

// Int returns the RGB value Discord expects for the embed side bar
func (c ColorTag) Int() int {
	return colorValues[c]
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// DisplayPayload is a freshly built embed; it is never cached or reused
type DisplayPayload struct {
	Title     string
	Color     ColorTag
	Fields    []EmbedField
	Footer    mo.Option[string]
	Timestamp mo.Option[time.Time]
}

type ReplyKind int

const (
	ReplyKindNone ReplyKind = iota
	ReplyKindText
	ReplyKindEmbed
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyKindText:
		return "text"
	case ReplyKindEmbed:
		return "embed"
	default:
		return "none"
	}
}

type ReplyAction struct {
	Kind  ReplyKind
	Text  string
	Embed DisplayPayload
}

func ReplyNone() ReplyAction {
	return ReplyAction{Kind: ReplyKindNone}
}

func ReplyText(text string) ReplyAction {
	return ReplyAction{Kind: ReplyKindText, Text: text}
}

func ReplyEmbed(payload DisplayPayload) ReplyAction {
	return ReplyAction{Kind: ReplyKindEmbed, Embed: payload}
}
