// Package scraper drives a headless Chromium through go-rod to submit
// addresses to the lookup site and read back the rendered answer.
//
// A Session holds exactly one browser and one tab for the whole run. Callers
// must Close it on every exit path; Close is idempotent.
package scraper
