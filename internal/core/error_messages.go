// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When users encounter errors, they can quote the error code
// for faster diagnosis.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Empty file: The uploaded file is empty
//	FILE002 - Not CSV: Only .csv files are accepted
//	FILE003 - No columns: The header row is empty
//	FILE004 - No data rows: A header exists but no data follows
//	FILE005 - Invalid CSV: The file could not be parsed
//	FILE006 - File too large: Upload exceeds the size cap
//
// # Upload Session Errors (UPL001-UPL099)
//
//	UPL001 - Unknown upload: The upload handle does not exist or expired
//	UPL002 - Not yet anonymized: Download requested before anonymization
//
// # Anonymization Errors (ANON001-ANON099)
//
//	ANON001 - No columns selected: The requested column set is empty
//	ANON002 - Empty key: The secret key is missing
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Patterns are matched case-insensitively with strings.Contains; the
// first matching pattern wins, so specific patterns come before general
// ones.
package core

import "strings"

// UserMessage provides user-friendly error information with actionable
// guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user
// message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors (FILE001-FILE006)
	{
		pattern: "file is empty",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with data rows",
			Code:    "FILE001",
		},
	},
	{
		pattern: "only csv files",
		msg: UserMessage{
			Message: "Only CSV files are allowed",
			Action:  "Save your spreadsheet as .csv and upload again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "has no columns",
		msg: UserMessage{
			Message: "The CSV file has no columns",
			Action:  "Make sure the first line of the file is a header row",
			Code:    "FILE003",
		},
	},
	{
		pattern: "has no data rows",
		msg: UserMessage{
			Message: "The CSV file has no data rows",
			Action:  "The file only contains a header; add data rows and retry",
			Code:    "FILE004",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file could not be parsed as CSV",
			Action:  "Check the file for unbalanced quotes or mixed delimiters",
			Code:    "FILE005",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE006",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The file exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE006",
		},
	},

	// Upload session errors (UPL001-UPL002)
	{
		pattern: "upload not found",
		msg: UserMessage{
			Message: "Invalid or expired file ID",
			Action:  "The upload may have expired; upload the file again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "not been anonymized",
		msg: UserMessage{
			Message: "This file has not been anonymized yet",
			Action:  "Run anonymization before downloading the result",
			Code:    "UPL002",
		},
	},

	// Anonymization errors (ANON001-ANON002)
	{
		pattern: "no columns selected",
		msg: UserMessage{
			Message: "No columns were selected for anonymization",
			Action:  "Pick at least one column to anonymize",
			Code:    "ANON001",
		},
	},
	{
		pattern: "no secret key",
		msg: UserMessage{
			Message: "No secret key was provided",
			Action:  "Enter a secret key; the same key gives repeatable results",
			Code:    "ANON002",
		},
	},

	// Rate limiting (RATE001)
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000). Check
// the application logs for the original technical error when users
// report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It
// searches the known patterns case-insensitively and returns the first
// match, or the generic ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}
