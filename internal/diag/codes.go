package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Capture analysis
	CapInfo       Code = 1000
	CapUnresolved Code = 1001 // closure references a name absent from its static scope chain

	// Generic instantiation
	GenInfo          Code = 2000
	GenUnresolved    Code = 2001 // type parameter survived past a point requiring a concrete type
	GenArityMismatch Code = 2002

	// Lowering
	LowInfo        Code = 3000
	LowUnsupported Code = 3001
	LowBadTree     Code = 3002

	// Structural validation
	ValInfo               Code = 4000
	ValUnterminatedBlock  Code = 4001
	ValBadTarget          Code = 4002
	ValMissingEntry       Code = 4003
	ValUnreachableEntry   Code = 4004
	ValUnregisteredReg    Code = 4005
	ValRedefinedReg       Code = 4006
	ValTypeParamInModule  Code = 4007
	ValExternWithBody     Code = 4008
	ValUndefinedRegUse    Code = 4009
	ValUnknownFunctionRef Code = 4010
)

func (c Code) String() string {
	return fmt.Sprintf("KLN%04d", uint16(c))
}
