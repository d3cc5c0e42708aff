package diag

import (
	"fmt"
	"sort"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Parsing (tree-sitter front end)
	ParseInfo            Code = 2000
	ParseFailed          Code = 2001
	ParseSyntaxError     Code = 2002
	ParseNoGrammar       Code = 2003
	ParseTooManyArgs     Code = 2004
	ParseEncodingInvalid Code = 2005

	// Checks
	ChkInfo             Code = 3000
	ChkArgumentsSwapped Code = 3001

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Project / config
	ProjInfo             Code = 5000
	ProjConfigInvalid    Code = 5001
	ProjConfigBadPattern Code = 5002
	ProjUnknownLanguage  Code = 5003
	ProjUnknownCheck     Code = 5004

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	ParseInfo:            "Parse information",
	ParseFailed:          "File could not be parsed",
	ParseSyntaxError:     "Syntax error in source file",
	ParseNoGrammar:       "No grammar registered for file extension",
	ParseTooManyArgs:     "Call site has too many arguments to analyze",
	ParseEncodingInvalid: "Source file is not valid UTF-8",
	ChkInfo:              "Check information",
	ChkArgumentsSwapped:  "Arguments are likely passed in the wrong order",
	IOLoadFileError:      "I/O load file error",
	IOWriteFileError:     "I/O write file error",
	ProjInfo:             "Project information",
	ProjConfigInvalid:    "Invalid configuration file",
	ProjConfigBadPattern: "Invalid pattern in configuration",
	ProjUnknownLanguage:  "Unknown language in configuration",
	ProjUnknownCheck:     "Unknown check in configuration",
	ObsInfo:              "Observability information",
	ObsTimings:           "Pipeline timings",
}

// ID returns the stable user-facing identifier, e.g. "CHK3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CHK%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// KnownCodes returns every defined code in ascending numeric order.
// SARIF output uses this to build the rules table.
func KnownCodes() []Code {
	codes := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
