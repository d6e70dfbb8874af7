// Package download is the facade between the user-facing shell and the media
// engine. Each operation translates a request into engine options (output
// template, format expression, post-processing), performs one blocking engine
// call and returns either a result or an error. Nothing here prints.
package download
