// Package ocr extracts text from document page images.
//
// Extraction runs through an ordered engine chain: when an engine errors,
// returns nothing, or scores under the confidence floor, the page is
// promoted to the next engine. The stage processes pages in parallel with
// a bounded worker count, retries unreadable pages, and reassembles the
// document in page order with explicit gap markers where pages stayed
// unreadable. Partial extraction is a first-class outcome, not an error.
package ocr
