// Package source holds the file table and byte-offset span type shared by
// every compiler stage.
package source

import "fmt"

// FileID identifies a file registered with a FileSet.
type FileID uint32

// Span is a half-open byte range [Start, End) into a single file's content.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the number of bytes the span covers.
func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span that contains both s and other. If the
// spans belong to different files, s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ZeroWidthAt returns a zero-length span at the given offset, used for
// EOF positioning and synthetic nodes that have no source text of their own.
func ZeroWidthAt(file FileID, offset uint32) Span {
	return Span{File: file, Start: offset, End: offset}
}
