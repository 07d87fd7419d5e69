// Package command parses the interactive lines accepted by the scheduler:
// `submit <program> [priority]` and `history`.
package command

import (
	"errors"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/scheduler/model/process"
)

var (
	// ErrUnknown is returned for lines that are neither blank nor a known command.
	ErrUnknown = errors.New("command: unknown command")
	// ErrMissingProgram is returned for a submit without a program name.
	ErrMissingProgram = errors.New("command: submit requires a program name")
)

const (
	submitKeyword  = "submit"
	historyKeyword = "history"
)

// Kind identifies a parsed line.
type Kind int

const (
	KindBlank Kind = iota
	KindSubmit
	KindHistory
)

// Command is a parsed interactive line.
type Command struct {
	Kind     Kind
	Program  string
	Priority process.Priority
	// RawPriority is the priority text as typed, empty when omitted.
	RawPriority string
	// Adjusted is set when RawPriority was replaced by the default.
	Adjusted bool
}

// Parse parses one line. Words after the priority are ignored.
func Parse(line string) (*Command, error) {
	cursor := parsly.NewCursor("", []byte(line), 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, wordToken)
	if matched.Code != wordToken.Code {
		if strings.TrimSpace(line) == "" {
			return &Command{Kind: KindBlank}, nil
		}
		return nil, cursor.NewError(wordToken)
	}

	switch keyword := matched.Text(cursor); keyword {
	case historyKeyword:
		if next := cursor.MatchAfterOptional(whitespaceToken, wordToken); next.Code == wordToken.Code {
			return nil, ErrUnknown
		}
		return &Command{Kind: KindHistory}, nil
	case submitKeyword:
		return parseSubmit(cursor)
	}
	return nil, ErrUnknown
}

func parseSubmit(cursor *parsly.Cursor) (*Command, error) {
	if matched := cursor.MatchOne(whitespaceToken); matched.Code != whitespaceToken.Code {
		return nil, ErrUnknown
	}
	matched := cursor.MatchAfterOptional(whitespaceToken, wordToken)
	if matched.Code != wordToken.Code {
		return nil, ErrMissingProgram
	}
	ret := &Command{Kind: KindSubmit, Program: matched.Text(cursor), Priority: process.DefaultPriority}
	if matched = cursor.MatchAfterOptional(whitespaceToken, wordToken); matched.Code == wordToken.Code {
		ret.RawPriority = matched.Text(cursor)
		ret.Priority, ret.Adjusted = process.ParsePriority(ret.RawPriority)
	}
	return ret, nil
}
