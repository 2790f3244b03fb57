// Package archive identifies comic archive containers and unpacks them.
//
// Identification shells out to a MIME probe and matches the answer against
// fixed zip-family and rar-family allow-lists. Extraction dispatches to 7z or
// unrar with an explicit argument list; neither tool sees a shell.
package archive
