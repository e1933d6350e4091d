// Package highlight provides syntax highlighting for code blocks
// found on documentation pages.
//
// Code is tokenized in a single pass by a Chroma lexer
// that recognizes comments, strings, numbers,
// API description keywords and type names, object properties,
// literals, HTTP methods, and status codes.
// Tokens never overlap, and each is rendered once
// inside at most one <span> carrying one of the Class constants.
//
// [Passes] is an alternative highlighter
// that applies an ordered list of [Rule]s as successive
// find-and-replace passes.
// It nests wrappers where rules overlap,
// and exists for pages styled against that output.
package highlight
