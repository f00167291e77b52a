package binding

import "fmt"

type MarkerKind uint8

const (
	MarkConstruct MarkerKind = iota + 1
	MarkEnable
	MarkDisable
	MarkDestroy
	MarkData
	MarkCommand
)

func (k MarkerKind) String() string {
	switch k {
	case MarkConstruct:
		return "OnConstruct"
	case MarkEnable:
		return "OnEnable"
	case MarkDisable:
		return "OnDisable"
	case MarkDestroy:
		return "OnDestroy"
	case MarkData:
		return "OnData"
	case MarkCommand:
		return "OnCommand"
	default:
		return "Unknown"
	}
}

func (k MarkerKind) named() bool {
	return k == MarkData || k == MarkCommand
}

// Marker says when a method runs: on a lifecycle event, or whenever the
// named observable member notifies.
type Marker struct {
	Kind   MarkerKind
	Member string
}

func (m Marker) String() string {
	if m.Kind.named() {
		return fmt.Sprintf("[%s(%s)]", m.Kind, m.Member)
	}
	return fmt.Sprintf("[%s]", m.Kind)
}

func OnConstruct() Marker { return Marker{Kind: MarkConstruct} }
func OnEnable() Marker    { return Marker{Kind: MarkEnable} }
func OnDisable() Marker   { return Marker{Kind: MarkDisable} }
func OnDestroy() Marker   { return Marker{Kind: MarkDestroy} }

// OnData subscribes the method to the Data member named member. The method
// takes exactly one parameter of the data's value type.
func OnData(member string) Marker {
	return Marker{Kind: MarkData, Member: member}
}

// OnCommand subscribes the method to the command named member. A method
// without parameters binds to a Command, a method with one parameter to a
// Command1 of exactly that payload type.
func OnCommand(member string) Marker {
	return Marker{Kind: MarkCommand, Member: member}
}
