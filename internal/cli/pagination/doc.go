// Package pagination provides the listing flags shared by carboncalc
// commands that print collections (stored scenarios, offset projects):
// offset- or page-based windows, sorting by a named field, and the
// metadata describing the returned page.
package pagination
