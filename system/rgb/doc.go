// Package rgb decodes the keyboard lighting command language into the fixed
// layout records accepted by the Acer gaming WMI interface.
//
// The language is a sequence of single letter commands, case-insensitive, each
// followed by one or more byte-sized numbers:
//
//	m<n>              mode
//	v<n>              speed (velocity), 1-9
//	b<n>              brightness, 0-100
//	d<n>              direction, 1 or 2
//	c<r> <g> <b>      color of the mode record
//	z<zone> <r> <g> <b> static color of a single zone, dispatched immediately
//
// A number is decimal by default. A leading "x" switches it to octal, an "x"
// right after the first digit ("0x") switches it to hexadecimal.
//
// Everything except zone commands accumulates into one mode record that is sent
// once the whole input has been decoded. A zone record already sent is not undone
// when a later command fails.
package rgb
