// File: doc.go
// Title: Restricted Object Literal Reader
// Description: Tokenizer and recursive-descent reader for the subset of
//              JS/TS object literal syntax found in lesson data files.
// Author: msto63
// Version: v0.1.0
// Created: 2026-02-12
// Modified: 2026-02-12
//
// Change History:
// - 2026-02-12 v0.1.0: Initial reader

/*
Package literal reads object and array literals written in JS/TS syntax
without parsing the host language.

The grammar is deliberately small:

  • objects with identifier, quoted or integer keys
  • arrays, with elisions
  • strings in any of the three quote styles, escapes decoded
  • unsigned integers
  • the call new Date('YYYY-MM-DD')

Anything else in value position (arithmetic, type assertions, identifiers,
function calls) is kept as a Raw value covering its source text, so the
reader never rejects a record just because one field is out of scope.

Every value and field carries its byte span in the original buffer, which
lets callers splice the source without re-serializing it.
*/
package literal
