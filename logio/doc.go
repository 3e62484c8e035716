// Package logio provides I/O decorators that log through a
// logger.Logger: Reader and Writer mirror every transferred byte to a
// log in raw mode, and Progress renders an in-place progress bar using
// raw same-line updates.
package logio
