// Package shell implements the interactive numbered menu that drives the
// download facade: it reads free-text answers, calls one facade operation per
// selection and prints the outcome.
package shell
