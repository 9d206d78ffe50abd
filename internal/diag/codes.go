package diag

import "fmt"

// Code identifies the specific diagnostic kind. Codes are grouped into
// numeric bands by the stage that produces them, mirroring the stage
// ordering of the pipeline: 1xxx lex, 2xxx parse, 3xxx check, 4xxx lower.
type Code uint16

const (
	UnknownCode Code = 0

	// Lex
	LexUnexpectedChar        Code = 1001
	LexUnterminatedString    Code = 1002
	LexUnknownUnitSuffix     Code = 1003
	LexUnterminatedComment   Code = 1004
	LexTokenTooLong          Code = 1005

	// Parse
	ParseUnexpectedToken   Code = 2001
	ParseUnclosedDelimiter Code = 2002

	// Check
	CheckUndefinedName       Code = 3001
	CheckTypeMismatch        Code = 3002
	CheckArityMismatch       Code = 3003
	CheckUnknownField        Code = 3004
	CheckMissingField        Code = 3005
	CheckNotCallable         Code = 3006
	CheckReservedIdentifier  Code = 3007
	CheckUnknownMutableList  Code = 3008

	// Lower
	LowerInternalInvariant Code = 4001
)

var codeNames = map[Code]string{
	UnknownCode:             "E0000",
	LexUnexpectedChar:       "E1001",
	LexUnterminatedString:   "E1002",
	LexUnknownUnitSuffix:    "E1003",
	LexUnterminatedComment:  "E1004",
	LexTokenTooLong:         "E1005",
	ParseUnexpectedToken:    "E2001",
	ParseUnclosedDelimiter:  "E2002",
	CheckUndefinedName:      "E3001",
	CheckTypeMismatch:       "E3002",
	CheckArityMismatch:      "E3003",
	CheckUnknownField:       "E3004",
	CheckMissingField:       "E3005",
	CheckNotCallable:        "E3006",
	CheckReservedIdentifier: "E3007",
	CheckUnknownMutableList: "E3008",
	LowerInternalInvariant:  "E4001",
}

// ID returns the stable textual identifier for the code, e.g. "E2001".
func (c Code) ID() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("E%04d", uint16(c))
}

func (c Code) String() string { return c.ID() }
