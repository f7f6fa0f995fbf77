// Package render projects a finished document into presentation formats:
// Markdown for files and terminals, HTML for shareable reports. Rendering is
// read-only; it never mutates the document.
package render
